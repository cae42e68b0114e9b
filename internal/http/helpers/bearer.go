package helpers

import (
	"net/http"
	"strings"
)

// BearerToken extrae el token del header Authorization. Header ausente o
// sin esquema Bearer devuelve ok=false: el login lo mapea a 400, no a 401
// (el cliente ni siquiera intentó autenticarse).
func BearerToken(r *http.Request) (string, bool) {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(ah[len("Bearer "):])
	return token, token != ""
}
