package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/store"
)

type marbleGameRepo struct {
	s *Store
}

// MarbleGame crea el repositorio del marble game.
func (s *Store) MarbleGame() store.MarbleGame {
	return &marbleGameRepo{s: s}
}

func (r *marbleGameRepo) Status(ctx context.Context, userID uuid.UUID) (domain.GameStatus, error) {
	var st domain.GameStatus
	err := r.s.pool.QueryRow(ctx,
		`SELECT argent_user, highest_cleared FROM marble_game_status WHERE argent_user = $1`,
		userID).Scan(&st.ArgentUser, &st.HighestCleared)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.GameStatus{}, store.ErrNotFound
	}
	if err != nil {
		return domain.GameStatus{}, fmt.Errorf("pg: game status: %w", err)
	}
	return st, nil
}

func (r *marbleGameRepo) IncrementHighestCleared(ctx context.Context, userID uuid.UUID) error {
	_, err := r.s.pool.Exec(ctx,
		`INSERT INTO marble_game_status (argent_user, highest_cleared)
		 VALUES ($1, 1)
		 ON CONFLICT (argent_user) DO UPDATE
		     SET highest_cleared = marble_game_status.highest_cleared + 1`,
		userID)
	if err != nil {
		return fmt.Errorf("pg: increment highest cleared: %w", err)
	}
	return nil
}
