package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessType define el nivel de acceso de un usuario sobre una checklist.
type AccessType string

const (
	AccessOwner  AccessType = "Owner"
	AccessEditor AccessType = "Editor"
)

// Valid indica si el access type es uno de los conocidos.
func (a AccessType) Valid() bool {
	return a == AccessOwner || a == AccessEditor
}

// Checklist es una lista de tareas. El acceso se modela aparte
// (checklist_access), una lista puede tener varios owners/editors.
type Checklist struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// NewChecklist crea una checklist con ID nuevo.
func NewChecklist(name string) Checklist {
	return Checklist{ID: uuid.New(), Name: name}
}

// ChecklistItem es un ítem dentro de una checklist.
// CreatedAt es epoch en segundos (mismo formato que expone la API).
type ChecklistItem struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Checklist uuid.UUID `json:"checklist"`
	Done      bool      `json:"done"`
	CreatedAt int64     `json:"created_at"`
}

// NewChecklistItem crea un ítem pendiente con timestamp actual.
func NewChecklistItem(title string, checklist uuid.UUID) ChecklistItem {
	return ChecklistItem{
		ID:        uuid.New(),
		Title:     title,
		Checklist: checklist,
		Done:      false,
		CreatedAt: time.Now().UTC().Unix(),
	}
}

// UserAccess es la vista "usuario con su nivel de acceso" de una checklist.
type UserAccess struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	AccessType AccessType `json:"access_type"`
}
