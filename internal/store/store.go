// Package store define los contratos de persistencia de argent.
// La implementación vive en store/pg; los handlers consumen estas
// interfaces y nunca tocan SQL.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/dropDatabas3/argent/internal/domain"
)

// ErrNotFound indica que la entidad no existe.
var ErrNotFound = errors.New("store: not found")

// Users es el repositorio de usuarios. El core de auth lo consume solo
// via GetByEmail en el login; el resto es CRUD de colaborador.
type Users interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Add(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Checklists es el repositorio de checklists, ítems y accesos.
type Checklists interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Checklist, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Checklist, error)
	// Create inserta la checklist y el acceso Owner del creador en una
	// transacción: nunca queda una lista sin owner.
	Create(ctx context.Context, checklist domain.Checklist, ownerID uuid.UUID) error
	// Delete borra ítems, accesos y la lista en una transacción.
	Delete(ctx context.Context, id uuid.UUID) error

	Items(ctx context.Context, checklistID uuid.UUID) ([]domain.ChecklistItem, error)
	AddItem(ctx context.Context, item domain.ChecklistItem) error
	SetItemDone(ctx context.Context, itemID uuid.UUID, done bool) error
	ClearDone(ctx context.Context, checklistID uuid.UUID) error

	// AccessType retorna el acceso del usuario o ErrNotFound si no tiene.
	AccessType(ctx context.Context, checklistID, userID uuid.UUID) (domain.AccessType, error)
	AddAccess(ctx context.Context, checklistID, userID uuid.UUID, access domain.AccessType) error
	RemoveAccess(ctx context.Context, checklistID, userID uuid.UUID) error
	UsersWithAccess(ctx context.Context, checklistID uuid.UUID) ([]domain.UserAccess, error)
}

// MarbleGame es el repositorio del progreso del marble game.
type MarbleGame interface {
	// Status retorna ErrNotFound si el usuario todavía no jugó.
	Status(ctx context.Context, userID uuid.UUID) (domain.GameStatus, error)
	// IncrementHighestCleared hace upsert: crea en 1 o incrementa en 1.
	IncrementHighestCleared(ctx context.Context, userID uuid.UUID) error
}
