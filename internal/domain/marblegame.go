package domain

import "github.com/google/uuid"

// GameStatus es el progreso del marble game por usuario.
type GameStatus struct {
	ArgentUser     uuid.UUID `json:"argentUser"`
	HighestCleared int32     `json:"highestCleared"`
}
