package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweets-api/internal/domain/entity"
)

// SeedItem producto del catálogo de ejemplo. A diferencia de AddSweet admite cantidad 0.
type SeedItem struct {
	Name     string
	Category string
	Price    string
	Quantity int64
}

// SampleCatalog catálogo inicial de la dulcería.
func SampleCatalog() []SeedItem {
	return []SeedItem{
		{Name: "Chocolate Fudge", Category: "Chocolate", Price: "5.99", Quantity: 20},
		{Name: "Sour Gummy Bears", Category: "Gummies", Price: "3.50", Quantity: 50},
		{Name: "Vanilla Cupcake", Category: "Baked Goods", Price: "4.00", Quantity: 10},
		{Name: "Rainbow Lollipops", Category: "Hard Candy", Price: "1.50", Quantity: 100},
		{Name: "Dark Chocolate Truffle", Category: "Chocolate", Price: "12.00", Quantity: 0},
	}
}

// Seed carga items solo si el inventario está vacío. Devuelve cuántos se crearon.
func (uc *SweetUseCase) Seed(ctx context.Context, items []SeedItem) (int, error) {
	existing, err := uc.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: listar: %w", err)
	}
	if len(existing) > 0 {
		uc.log.Info().Int("existing", len(existing)).Msg("inventario no vacío, seed omitido")
		return 0, nil
	}

	created := 0
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return created, fmt.Errorf("seed: precio de %q: %w", it.Name, err)
		}
		if err := validPrice(price); err != nil {
			return created, fmt.Errorf("seed: %q: %w", it.Name, err)
		}
		if it.Quantity < 0 {
			return created, fmt.Errorf("seed: quantity negativa para %q", it.Name)
		}
		now := uc.now().UTC()
		s := &entity.Sweet{
			ID:        uuid.New().String(),
			Name:      it.Name,
			Category:  it.Category,
			Price:     price.Truncate(2),
			Quantity:  it.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := uc.repo.Create(ctx, s); err != nil {
			return created, fmt.Errorf("seed: crear %q: %w", it.Name, err)
		}
		created++
	}
	uc.log.Info().Int("created", created).Msg("catálogo de ejemplo cargado")
	return created, nil
}
