package handlers

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/argent/internal/http/helpers"
)

// Pinger es lo mínimo que el health check necesita del storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler expone health-check y ping.
type HealthHandler struct {
	DB Pinger
}

// HealthCheck verifica la base. Sin base no hay servicio.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			helpers.WriteJSON(w, http.StatusServiceUnavailable, helpers.SimpleMessage{Msg: "database unavailable"})
			return
		}
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}

// Ping responde siempre. Liveness pura.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}
