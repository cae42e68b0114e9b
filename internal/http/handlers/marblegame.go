package handlers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/argent/internal/http/helpers"
	mw "github.com/dropDatabas3/argent/internal/http/middlewares"
	"github.com/dropDatabas3/argent/internal/observability/logger"
	"github.com/dropDatabas3/argent/internal/store"
)

// MarbleGameHandler expone el progreso del marble game.
type MarbleGameHandler struct {
	Game store.MarbleGame
}

// Status devuelve el progreso del usuario, o null si todavía no jugó.
func (h *MarbleGameHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := mw.MustGetUser(r.Context())
	status, err := h.Game.Status(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helpers.WriteJSON(w, http.StatusOK, nil)
			return
		}
		logger.From(r.Context()).Error("lectura de game status falló", logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, status)
}

// UpdateHighestCleared incrementa el nivel máximo superado.
func (h *MarbleGameHandler) UpdateHighestCleared(w http.ResponseWriter, r *http.Request) {
	user := mw.MustGetUser(r.Context())
	if err := h.Game.IncrementHighestCleared(r.Context(), user.ID); err != nil {
		logger.From(r.Context()).Error("update de game status falló", logger.Err(err))
		helpers.WriteError(w, helpers.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.OK())
}
