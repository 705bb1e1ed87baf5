package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateSweetRequest entrada para agregar un producto. Punteros para distinguir campo ausente de cero.
type CreateSweetRequest struct {
	Name     string           `json:"name" validate:"required,min=1,max=200"`
	Category string           `json:"category" validate:"required,min=1,max=100"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Quantity *int64           `json:"quantity" validate:"required,gt=0"`
}

// RestockRequest entrada para reabastecer. Se acepta "quantity" por compatibilidad con clientes previos.
type RestockRequest struct {
	Amount   *int64 `json:"amount"`
	Quantity *int64 `json:"quantity"`
}

// Value devuelve la cantidad solicitada (amount tiene prioridad) y si vino informada.
func (r RestockRequest) Value() (int64, bool) {
	if r.Amount != nil {
		return *r.Amount, true
	}
	if r.Quantity != nil {
		return *r.Quantity, true
	}
	return 0, false
}

// SweetResponse salida de un producto.
type SweetResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MarshalJSON emite price como número JSON (5.99) en lugar del string por defecto de decimal.
func (r SweetResponse) MarshalJSON() ([]byte, error) {
	type plain SweetResponse
	return json.Marshal(struct {
		plain
		Price json.RawMessage `json:"price"`
	}{plain(r), json.RawMessage(r.Price.String())})
}
