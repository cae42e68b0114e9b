package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/argent/internal/auth"
	"github.com/dropDatabas3/argent/internal/http/helpers"
	"github.com/dropDatabas3/argent/internal/observability/logger"
)

// =================================================================================
// SESSION RESOLVER
// =================================================================================

// SessionConfig configura la resolución de sesión desde la cookie.
type SessionConfig struct {
	CookieName string
	SigningKey []byte
}

// RequireSession resuelve el usuario autenticado desde la cookie de sesión
// y lo inyecta en el contexto. Cookie ausente, firma inválida, estructura
// rota o token vencido: siempre 401, nunca un éxito parcial. El motivo real
// se loguea server-side y no viaja al cliente.
func RequireSession(cfg SessionConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(cfg.CookieName)
			if err != nil || ck.Value == "" {
				helpers.WriteError(w, helpers.ErrUnauthorized.WithDetail("No authentication cookie"))
				return
			}

			user, err := auth.ParseSessionToken(ck.Value, cfg.SigningKey)
			if err != nil {
				logger.From(r.Context()).Warn("cookie de sesión rechazada", logger.Err(err))
				helpers.WriteError(w, helpers.ErrUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
