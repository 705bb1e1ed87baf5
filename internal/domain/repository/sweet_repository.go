package repository

import (
	"context"

	"github.com/jhoicas/sweets-api/internal/domain/entity"
)

// SweetRepository define el puerto de persistencia del inventario.
// No expone un setter de cantidad: Purchase y Restock son las únicas mutaciones y cada
// implementación las ejecuta como una sección crítica atómica por producto.
type SweetRepository interface {
	Create(ctx context.Context, sweet *entity.Sweet) error
	// List devuelve los productos en orden de inserción.
	List(ctx context.Context) ([]*entity.Sweet, error)
	// GetByID devuelve domain.ErrNotFound si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sweet, error)
	// Purchase descuenta exactamente 1 unidad. domain.ErrNotFound / domain.ErrOutOfStock.
	Purchase(ctx context.Context, id string) (*entity.Sweet, error)
	// Restock suma amount (> 0, validado por el caso de uso). domain.ErrNotFound.
	Restock(ctx context.Context, id string, amount int64) (*entity.Sweet, error)
}
