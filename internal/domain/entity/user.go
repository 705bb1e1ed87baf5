package entity

import (
	"fmt"
	"time"
)

// Role nivel de privilegio. Conjunto cerrado: USER y ADMIN.
type Role string

// Roles válidos para User.
const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Roles devuelve todos los roles conocidos.
func Roles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// ParseRole convierte un string (p. ej. el claim del token) en Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("rol desconocido %q", s)
}

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }

// User representa una identidad registrada. El rol no cambia por ninguna operación expuesta.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         Role
	CreatedAt    time.Time
}
