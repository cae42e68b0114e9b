package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/argent/internal/cache"
	"github.com/dropDatabas3/argent/internal/domain"
	"github.com/dropDatabas3/argent/internal/store"
)

const (
	cacheKeyUserByEmail = "user:email:"
	cacheKeyUserList    = "users:all"
)

type usersRepo struct {
	s     *Store
	cache cache.Cache
	ttl   time.Duration
}

// Users crea el repositorio de usuarios. El cache acelera el lookup por
// email del login y la lista para compartir; se invalida en cada escritura.
func (s *Store) Users(c cache.Cache, ttl time.Duration) store.Users {
	return &usersRepo{s: s, cache: c, ttl: ttl}
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if r.cache != nil {
		if b, ok := r.cache.Get(cacheKeyUserByEmail + email); ok {
			var u domain.User
			if json.Unmarshal(b, &u) == nil {
				return u, nil
			}
		}
	}

	u, err := r.scanUser(r.s.pool.QueryRow(ctx,
		`SELECT id, name, email, role FROM argent_users WHERE email = $1`, email))
	if err != nil {
		return domain.User{}, err
	}

	if r.cache != nil {
		if b, err := json.Marshal(u); err == nil {
			r.cache.Set(cacheKeyUserByEmail+email, b, r.ttl)
		}
	}
	return u, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return r.scanUser(r.s.pool.QueryRow(ctx,
		`SELECT id, name, email, role FROM argent_users WHERE id = $1`, id))
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	if r.cache != nil {
		if b, ok := r.cache.Get(cacheKeyUserList); ok {
			var users []domain.User
			if json.Unmarshal(b, &users) == nil {
				return users, nil
			}
		}
	}

	rows, err := r.s.pool.Query(ctx, `SELECT id, name, email, role FROM argent_users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("pg: list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pg: list users: %w", err)
	}

	if r.cache != nil {
		if b, err := json.Marshal(users); err == nil {
			r.cache.Set(cacheKeyUserList, b, r.ttl)
		}
	}
	return users, nil
}

func (r *usersRepo) Add(ctx context.Context, user domain.User) error {
	_, err := r.s.pool.Exec(ctx,
		`INSERT INTO argent_users (id, name, email, role) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Name, user.Email, string(user.Role))
	if err != nil {
		return fmt.Errorf("pg: add user: %w", err)
	}
	r.invalidate(user.Email)
	return nil
}

func (r *usersRepo) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := r.s.pool.Exec(ctx, `DELETE FROM argent_users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("pg: delete user: %w", err)
	}
	r.invalidate(u.Email)
	return nil
}

func (r *usersRepo) invalidate(email string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(cacheKeyUserByEmail + email)
	r.cache.Delete(cacheKeyUserList)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *usersRepo) scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, store.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("pg: scan user: %w", err)
	}
	u.Role = domain.Role(role)
	return u, nil
}
