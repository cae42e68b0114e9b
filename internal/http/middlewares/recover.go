package middlewares

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dropDatabas3/argent/internal/http/helpers"
	"github.com/dropDatabas3/argent/internal/observability/logger"
)

// WithRecover convierte panics en 500. Ningún request puede tirar el proceso.
func WithRecover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.From(r.Context()).Error("panic en handler",
						zap.Any("panic", rec),
						logger.Method(r.Method),
						logger.Path(r.URL.Path),
					)
					helpers.WriteError(w, helpers.ErrInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
