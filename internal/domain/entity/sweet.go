package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet representa un producto del inventario de la dulcería.
// Quantity solo cambia vía Purchase/Restock del repositorio y nunca es negativa.
type Sweet struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal // precio unitario, >= 0
	Quantity  int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone devuelve una copia independiente (los adaptadores nunca exponen su estado interno).
func (s *Sweet) Clone() *Sweet {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
