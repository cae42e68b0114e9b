package domain

import "github.com/google/uuid"

// Role define el rol de un usuario dentro de argent.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User es el registro de usuario. El token de sesión embebe una copia
// completa: durante la vida de la sesión esa copia es autoritativa aunque
// el registro en la base cambie.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// UserForSharing es la vista pública de un usuario para compartir listas.
// No expone email ni rol.
type UserForSharing struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ForSharing proyecta el usuario a su vista pública.
func (u User) ForSharing() UserForSharing {
	return UserForSharing{ID: u.ID, Name: u.Name}
}
