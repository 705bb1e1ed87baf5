package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

const sweetColumns = `id, name, category, price, quantity, created_at, updated_at`

// SweetRepo implementación de SweetRepository sobre PostgreSQL.
// Purchase y Restock bloquean la fila (SELECT ... FOR UPDATE) dentro de una transacción.
type SweetRepo struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewSweetRepository construye el adaptador de inventario.
func NewSweetRepository(pool *pgxpool.Pool) *SweetRepo {
	return &SweetRepo{pool: pool, tx: NewTxRunner(pool)}
}

// Create inserta el producto; el orden de inserción queda en la columna seq.
func (r *SweetRepo) Create(ctx context.Context, s *entity.Sweet) error {
	query := `
		INSERT INTO sweets (` + sweetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) || isCheckViolation(err) || isNumericOutOfRange(err) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return fmt.Errorf("insert sweet: %w", err)
	}
	return nil
}

// List devuelve todos los productos en orden de inserción.
func (r *SweetRepo) List(ctx context.Context) ([]*entity.Sweet, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sweetColumns+` FROM sweets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list sweets: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetByID obtiene un producto; domain.ErrNotFound si no existe.
func (r *SweetRepo) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	return getSweet(ctx, r.pool, id, false)
}

// Purchase descuenta una unidad con la fila bloqueada.
func (r *SweetRepo) Purchase(ctx context.Context, id string) (*entity.Sweet, error) {
	var out *entity.Sweet
	err := r.tx.Run(ctx, func(q Querier) error {
		current, err := getSweet(ctx, q, id, true)
		if err != nil {
			return err
		}
		if current.Quantity <= 0 {
			return domain.ErrOutOfStock
		}
		out, err = adjustQuantity(ctx, q, id, -1)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Restock suma amount unidades con la fila bloqueada.
func (r *SweetRepo) Restock(ctx context.Context, id string, amount int64) (*entity.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	var out *entity.Sweet
	err := r.tx.Run(ctx, func(q Querier) error {
		current, err := getSweet(ctx, q, id, true)
		if err != nil {
			return err
		}
		if current.Quantity > math.MaxInt64-amount {
			return domain.ErrInvalidAmount
		}
		out, err = adjustQuantity(ctx, q, id, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getSweet(ctx context.Context, q Querier, id string, forUpdate bool) (*entity.Sweet, error) {
	// Un id que no es UUID no puede existir en la tabla.
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	s, err := scanSweet(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sweet: %w", err)
	}
	return s, nil
}

func adjustQuantity(ctx context.Context, q Querier, id string, delta int64) (*entity.Sweet, error) {
	query := `
		UPDATE sweets SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + sweetColumns
	s, err := scanSweet(q.QueryRow(ctx, query, id, delta))
	if err != nil {
		if isCheckViolation(err) {
			return nil, domain.ErrOutOfStock
		}
		return nil, fmt.Errorf("update quantity: %w", err)
	}
	return s, nil
}

func scanSweet(row pgx.Row) (*entity.Sweet, error) {
	var s entity.Sweet
	if err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
