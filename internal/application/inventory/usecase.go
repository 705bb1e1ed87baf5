package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweets-api/internal/application/dto"
	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// Límites de los campos de texto.
const (
	MaxNameLength     = 200
	MaxCategoryLength = 100
)

// MaxPrice mayor precio representable en NUMERIC(12,2).
var MaxPrice = decimal.RequireFromString("9999999999.99")

// validPrice exige 0 <= price <= MaxPrice con a lo sumo dos decimales. Nunca redondea.
func validPrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	case p.GreaterThan(MaxPrice):
		return fmt.Errorf("%w: price excede %s", domain.ErrInvalidInput, MaxPrice)
	case !p.Equal(p.Truncate(2)):
		return fmt.Errorf("%w: price admite a lo sumo 2 decimales", domain.ErrInvalidInput)
	}
	return nil
}

// SweetUseCase casos de uso del inventario. La cantidad solo cambia vía Purchase/Restock,
// que el repositorio ejecuta de forma atómica por producto.
type SweetUseCase struct {
	repo repository.SweetRepository
	log  *logger.Logger
	now  func() time.Time
}

// NewSweetUseCase construye el caso de uso.
func NewSweetUseCase(repo repository.SweetRepository, log *logger.Logger) *SweetUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SweetUseCase{repo: repo, log: log.Named("inventory"), now: time.Now}
}

// AddSweet valida y crea un producto nuevo.
// Requiere name y category, price >= 0 y quantity entera > 0.
func (uc *SweetUseCase) AddSweet(ctx context.Context, in dto.CreateSweetRequest) (*dto.SweetResponse, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	switch {
	case name == "" || category == "" || in.Price == nil || in.Quantity == nil:
		return nil, fmt.Errorf("%w: name, category, price y quantity son requeridos", domain.ErrInvalidInput)
	case len(name) > MaxNameLength || len(category) > MaxCategoryLength:
		return nil, fmt.Errorf("%w: name o category demasiado largo", domain.ErrInvalidInput)
	case *in.Quantity <= 0:
		return nil, fmt.Errorf("%w: quantity debe ser un entero positivo", domain.ErrInvalidInput)
	}
	if err := validPrice(*in.Price); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	sweet := &entity.Sweet{
		ID:        uuid.New().String(),
		Name:      name,
		Category:  category,
		Price:     in.Price.Truncate(2),
		Quantity:  *in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, sweet); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}
	uc.log.Info().Str("sweet_id", sweet.ID).Int64("quantity", sweet.Quantity).Msg("producto agregado")
	return toSweetResponse(sweet), nil
}

// ListSweets devuelve el inventario en orden de inserción.
func (uc *SweetUseCase) ListSweets(ctx context.Context) ([]dto.SweetResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	out := make([]dto.SweetResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSweetResponse(s))
	}
	return out, nil
}

// GetSweet obtiene un producto por ID.
func (uc *SweetUseCase) GetSweet(ctx context.Context, id string) (*dto.SweetResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr("obtener producto", err)
	}
	return toSweetResponse(s), nil
}

// Purchase descuenta una unidad. ErrNotFound si no existe, ErrOutOfStock si la cantidad es 0.
func (uc *SweetUseCase) Purchase(ctx context.Context, id string) (*dto.SweetResponse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	s, err := uc.repo.Purchase(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfStock) {
			uc.log.Debug().Str("sweet_id", id).Msg("compra rechazada: agotado")
		}
		return nil, wrapStoreErr("comprar producto", err)
	}
	uc.log.Debug().Str("sweet_id", s.ID).Int64("quantity", s.Quantity).Msg("compra registrada")
	return toSweetResponse(s), nil
}

// Restock suma amount unidades. ErrInvalidAmount si amount <= 0 (sin tocar el repositorio).
func (uc *SweetUseCase) Restock(ctx context.Context, id string, amount int64) (*dto.SweetResponse, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	s, err := uc.repo.Restock(ctx, id, amount)
	if err != nil {
		return nil, wrapStoreErr("reabastecer producto", err)
	}
	uc.log.Info().Str("sweet_id", s.ID).Int64("amount", amount).Int64("quantity", s.Quantity).Msg("producto reabastecido")
	return toSweetResponse(s), nil
}

// wrapStoreErr deja pasar los errores de dominio tal cual y envuelve los de infraestructura.
func wrapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidInput):
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toSweetResponse(s *entity.Sweet) *dto.SweetResponse {
	return &dto.SweetResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  s.Category,
		Price:     s.Price,
		Quantity:  s.Quantity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
