package repository

import (
	"context"

	"github.com/jhoicas/sweets-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create persiste el usuario; devuelve domain.ErrDuplicateIdentity si el email ya existe
	// y en ese caso no modifica el registro existente.
	Create(ctx context.Context, user *entity.User) error
	// FindByEmail devuelve (nil, nil) si no existe.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}
