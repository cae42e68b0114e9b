package auth

import (
	"net/http"
	"time"
)

// CookiePath es el scope de la cookie de sesión: la base de la API.
const CookiePath = "/api/v1"

// BuildAuthCookie arma la cookie que carga un token de sesión.
// HttpOnly siempre. Cross-site (secure) exige SameSite=None; deployments
// same-site usan Strict. Expires coincide con el exp del token para que el
// browser la descarte a más tardar cuando el token deja de valer.
func BuildAuthCookie(name, token string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSiteFor(secure),
		Expires:  expires.UTC(),
	}
}

// BuildExpiredCookie arma la instrucción "borrá esta cookie": mismo nombre,
// path y atributos de seguridad que la de auth (si difirieran, el cliente
// guardaría dos cookies ambiguas en vez de pisar la de sesión), valor vacío
// y Expires en el origen epoch.
func BuildExpiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     CookiePath,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSiteFor(secure),
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	}
}

func sameSiteFor(secure bool) http.SameSite {
	if secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteStrictMode
}
