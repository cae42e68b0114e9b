// Package handlers implementa los endpoints HTTP de argent.
package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/argent/internal/auth"
	"github.com/dropDatabas3/argent/internal/http/helpers"
	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store"
)

// AuthHandler maneja login federado y logout.
type AuthHandler struct {
	Verifier     *auth.Verifier
	Users        store.Users
	CookieName   string
	SigningKey   []byte
	SecureCookie bool
}

// Login verifica el ID token de Google del header Authorization, busca el
// usuario por el email verificado y adjunta la cookie de sesión.
//
// Mapeo de errores: header ausente 400; todo lo demás (token inválido,
// JWKS inaccesible, usuario desconocido) 401 genérico. Fail closed: el
// cliente no distingue "tu token es malo" de "no pudimos chequear".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	raw, ok := helpers.BearerToken(r)
	if !ok {
		helpers.WriteError(w, helpers.ErrBadRequest.WithDetail("Missing google authorization bearer token"))
		return
	}

	log := logger.From(r.Context())

	email, err := h.Verifier.VerifyIDToken(r.Context(), raw)
	if err != nil {
		log.Warn("verificación del bearer token falló", logger.Err(err))
		helpers.WriteError(w, helpers.ErrUnauthorized)
		return
	}

	user, err := h.Users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("login con email verificado pero sin usuario", logger.Email(email))
			helpers.WriteError(w, helpers.ErrUnauthorized)
			return
		}
		log.Error("lookup de usuario falló", logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError)
		return
	}

	token, exp, err := auth.IssueSessionToken(user, auth.SessionTTL, h.SigningKey)
	if err != nil {
		log.Error("emisión del token de sesión falló", logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError)
		return
	}

	http.SetCookie(w, auth.BuildAuthCookie(h.CookieName, token, exp, h.SecureCookie))
	log.Info("login", logger.UserID(user.ID))
	helpers.WriteJSON(w, http.StatusOK, user)
}

// Logout pisa la cookie de sesión con la versión expirada. No hay estado
// server-side que invalidar: el token muere en el cliente.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.BuildExpiredCookie(h.CookieName, h.SecureCookie))
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}
