package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/store"
)

type checklistsRepo struct {
	s *Store
}

// Checklists crea el repositorio de checklists.
func (s *Store) Checklists() store.Checklists {
	return &checklistsRepo{s: s}
}

func (r *checklistsRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Checklist, error) {
	rows, err := r.s.pool.Query(ctx,
		`SELECT c.id, c.name
		   FROM checklists c
		   JOIN checklist_access ca ON c.id = ca.checklist
		  WHERE ca.argent_user = $1
		  ORDER BY c.name`, userID)
	if err != nil {
		return nil, fmt.Errorf("pg: checklists for user: %w", err)
	}
	defer rows.Close()

	var lists []domain.Checklist
	for rows.Next() {
		var c domain.Checklist
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("pg: scan checklist: %w", err)
		}
		lists = append(lists, c)
	}
	return lists, rows.Err()
}

func (r *checklistsRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Checklist, error) {
	var c domain.Checklist
	err := r.s.pool.QueryRow(ctx,
		`SELECT id, name FROM checklists WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Checklist{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Checklist{}, fmt.Errorf("pg: get checklist: %w", err)
	}
	return c, nil
}

func (r *checklistsRepo) Create(ctx context.Context, checklist domain.Checklist, ownerID uuid.UUID) error {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO checklists (id, name) VALUES ($1, $2)`,
		checklist.ID, checklist.Name); err != nil {
		return fmt.Errorf("pg: insert checklist: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO checklist_access (checklist, argent_user, access_type) VALUES ($1, $2, $3)`,
		checklist.ID, ownerID, string(domain.AccessOwner)); err != nil {
		return fmt.Errorf("pg: insert owner access: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *checklistsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM checklistitems WHERE checklist = $1`, id); err != nil {
		return fmt.Errorf("pg: delete items: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM checklist_access WHERE checklist = $1`, id); err != nil {
		return fmt.Errorf("pg: delete access: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM checklists WHERE id = $1`, id); err != nil {
		return fmt.Errorf("pg: delete checklist: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *checklistsRepo) Items(ctx context.Context, checklistID uuid.UUID) ([]domain.ChecklistItem, error) {
	rows, err := r.s.pool.Query(ctx,
		`SELECT id, title, checklist, done, created_at
		   FROM checklistitems
		  WHERE checklist = $1
		  ORDER BY created_at`, checklistID)
	if err != nil {
		return nil, fmt.Errorf("pg: checklist items: %w", err)
	}
	defer rows.Close()

	var items []domain.ChecklistItem
	for rows.Next() {
		var it domain.ChecklistItem
		var createdAt time.Time
		if err := rows.Scan(&it.ID, &it.Title, &it.Checklist, &it.Done, &createdAt); err != nil {
			return nil, fmt.Errorf("pg: scan item: %w", err)
		}
		it.CreatedAt = createdAt.UTC().Unix()
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *checklistsRepo) AddItem(ctx context.Context, item domain.ChecklistItem) error {
	_, err := r.s.pool.Exec(ctx,
		`INSERT INTO checklistitems (id, title, done, checklist, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.Title, item.Done, item.Checklist, time.Unix(item.CreatedAt, 0).UTC())
	if err != nil {
		return fmt.Errorf("pg: add item: %w", err)
	}
	return nil
}

func (r *checklistsRepo) SetItemDone(ctx context.Context, itemID uuid.UUID, done bool) error {
	tag, err := r.s.pool.Exec(ctx,
		`UPDATE checklistitems SET done = $1 WHERE id = $2`, done, itemID)
	if err != nil {
		return fmt.Errorf("pg: set item done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *checklistsRepo) ClearDone(ctx context.Context, checklistID uuid.UUID) error {
	_, err := r.s.pool.Exec(ctx,
		`DELETE FROM checklistitems WHERE checklist = $1 AND done`, checklistID)
	if err != nil {
		return fmt.Errorf("pg: clear done: %w", err)
	}
	return nil
}

func (r *checklistsRepo) AccessType(ctx context.Context, checklistID, userID uuid.UUID) (domain.AccessType, error) {
	var access string
	err := r.s.pool.QueryRow(ctx,
		`SELECT access_type FROM checklist_access WHERE checklist = $1 AND argent_user = $2`,
		checklistID, userID).Scan(&access)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("pg: access type: %w", err)
	}
	return domain.AccessType(access), nil
}

func (r *checklistsRepo) AddAccess(ctx context.Context, checklistID, userID uuid.UUID, access domain.AccessType) error {
	_, err := r.s.pool.Exec(ctx,
		`INSERT INTO checklist_access (checklist, argent_user, access_type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (checklist, argent_user) DO UPDATE SET access_type = EXCLUDED.access_type`,
		checklistID, userID, string(access))
	if err != nil {
		return fmt.Errorf("pg: add access: %w", err)
	}
	return nil
}

func (r *checklistsRepo) RemoveAccess(ctx context.Context, checklistID, userID uuid.UUID) error {
	_, err := r.s.pool.Exec(ctx,
		`DELETE FROM checklist_access WHERE checklist = $1 AND argent_user = $2`,
		checklistID, userID)
	if err != nil {
		return fmt.Errorf("pg: remove access: %w", err)
	}
	return nil
}

func (r *checklistsRepo) UsersWithAccess(ctx context.Context, checklistID uuid.UUID) ([]domain.UserAccess, error) {
	rows, err := r.s.pool.Query(ctx,
		`SELECT u.id, u.name, ca.access_type
		   FROM argent_users u
		   JOIN checklist_access ca ON ca.argent_user = u.id
		  WHERE ca.checklist = $1
		  ORDER BY u.name`, checklistID)
	if err != nil {
		return nil, fmt.Errorf("pg: users with access: %w", err)
	}
	defer rows.Close()

	var accesses []domain.UserAccess
	for rows.Next() {
		var ua domain.UserAccess
		var access string
		if err := rows.Scan(&ua.ID, &ua.Name, &access); err != nil {
			return nil, fmt.Errorf("pg: scan access: %w", err)
		}
		ua.AccessType = domain.AccessType(access)
		accesses = append(accesses, ua)
	}
	return accesses, rows.Err()
}
