package handlers

import (
	"net/http"

	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/http/helpers"
	mw "github.com/dropDatabas3/argent/internal/http/middlewares"
	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store"
)

// UsersHandler expone el usuario de la sesión y el listado para compartir.
type UsersHandler struct {
	Users store.Users
}

// Me devuelve el usuario embebido en la sesión. No consulta la base: la
// copia del token es autoritativa durante la vida de la sesión.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, mw.MustGetUser(r.Context()))
}

// List devuelve todos los usuarios en su vista pública (id y nombre),
// para elegir con quién compartir una checklist.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		logger.From(r.Context()).Error("listado de usuarios falló", logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError)
		return
	}

	out := make([]domain.UserForSharing, 0, len(users))
	for _, u := range users {
		out = append(out, u.ForSharing())
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
