package middlewares

import (
	"context"

	"github.com/dropDatabas3/argent/internal/domain"
)

type ctxKey string

const (
	// ctxUserKey guarda el usuario autenticado resuelto de la cookie de sesión
	ctxUserKey ctxKey = "user"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// WithUser inyecta el usuario autenticado en el contexto.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, user)
}

// GetUser obtiene el usuario autenticado del contexto.
// ok=false si RequireSession no se aplicó en la ruta.
func GetUser(ctx context.Context) (domain.User, bool) {
	if v := ctx.Value(ctxUserKey); v != nil {
		if u, ok := v.(domain.User); ok {
			return u, true
		}
	}
	return domain.User{}, false
}

// MustGetUser obtiene el usuario o hace panic.
// Usar solo en rutas donde RequireSession SIEMPRE se aplica.
func MustGetUser(ctx context.Context) domain.User {
	u, ok := GetUser(ctx)
	if !ok {
		panic("middlewares: no user in context")
	}
	return u
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
