package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.SweetStore, id string, qty int64) {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), &entity.Sweet{
		ID:       id,
		Name:     "Sweet " + id,
		Category: "Chocolate",
		Price:    decimal.RequireFromString("5.99"),
		Quantity: qty,
	}))
}

func TestSweetStore_ListMantieneOrdenDeInsercion(t *testing.T) {
	s := memory.NewSweetStore()
	for _, id := range []string{"c", "a", "b"} {
		seed(t, s, id, 1)
	}

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "b", list[2].ID)
}

func TestSweetStore_ListDevuelveCopias(t *testing.T) {
	s := memory.NewSweetStore()
	seed(t, s, "a", 5)

	list, _ := s.List(context.Background())
	list[0].Quantity = -100

	got, err := s.GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.Quantity)
}

func TestSweetStore_CreateDuplicado(t *testing.T) {
	s := memory.NewSweetStore()
	seed(t, s, "a", 5)
	err := s.Create(context.Background(), &entity.Sweet{ID: "a", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSweetStore_Purchase(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSweetStore()
	seed(t, s, "a", 1)

	got, err := s.Purchase(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Quantity)

	_, err = s.Purchase(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	_, err = s.Purchase(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSweetStore_Restock(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSweetStore()
	seed(t, s, "a", 5)

	_, err := s.Restock(ctx, "a", 10)
	require.NoError(t, err)
	got, err := s.Restock(ctx, "a", 10)
	require.NoError(t, err)
	assert.EqualValues(t, 25, got.Quantity)

	_, err = s.Restock(ctx, "a", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, err = s.Restock(ctx, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// N compras concurrentes sobre N unidades: todas exitosas, stock final 0, una más falla.
func TestSweetStore_PurchaseConcurrente(t *testing.T) {
	const n = 200
	ctx := context.Background()
	s := memory.NewSweetStore()
	seed(t, s, "fudge", n)

	var (
		wg     sync.WaitGroup
		ok     atomic.Int64
		failed atomic.Int64
		start  = make(chan struct{})
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			got, err := s.Purchase(ctx, "fudge")
			if err != nil {
				failed.Add(1)
				return
			}
			if got.Quantity < 0 {
				failed.Add(1)
				return
			}
			ok.Add(1)
		}()
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, n, ok.Load())
	assert.Zero(t, failed.Load())

	_, err := s.Purchase(ctx, "fudge")
	assert.ErrorIs(t, err, domain.ErrOutOfStock)

	got, err := s.GetByID(ctx, "fudge")
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Quantity)
}

// Más compradores que stock: exactamente stock compras exitosas, el resto OutOfStock.
func TestSweetStore_PurchaseConcurrente_SobreDemanda(t *testing.T) {
	const stock, buyers = 50, 300
	ctx := context.Background()
	s := memory.NewSweetStore()
	seed(t, s, "fudge", stock)

	var wg sync.WaitGroup
	var ok, out atomic.Int64
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Purchase(ctx, "fudge")
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrOutOfStock):
				out.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, stock, ok.Load())
	assert.EqualValues(t, buyers-stock, out.Load())
}

// Restocks y compras intercalados no pierden actualizaciones.
func TestSweetStore_RestockYPurchaseConcurrentes(t *testing.T) {
	const workers = 100
	ctx := context.Background()
	s := memory.NewSweetStore()
	seed(t, s, "gummies", workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Restock(ctx, "gummies", 3)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.Purchase(ctx, "gummies")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetByID(ctx, "gummies")
	require.NoError(t, err)
	assert.EqualValues(t, workers+3*workers-workers, got.Quantity)
}

// Los listados concurrentes nunca observan cantidades negativas.
func TestSweetStore_ListNuncaNegativo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewSweetStore()
	for i := 0; i < 5; i++ {
		seed(t, s, fmt.Sprintf("s%d", i), 20)
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			list, err := s.List(ctx)
			if !assert.NoError(t, err) {
				return
			}
			for _, sw := range list {
				if sw.Quantity < 0 {
					t.Errorf("cantidad negativa observada en %s: %d", sw.ID, sw.Quantity)
					return
				}
			}
		}
	}()

	var buyers sync.WaitGroup
	for i := 0; i < 200; i++ {
		buyers.Add(1)
		go func(i int) {
			defer buyers.Done()
			_, _ = s.Purchase(ctx, fmt.Sprintf("s%d", i%5))
		}(i)
	}
	buyers.Wait()
	close(done)
	wg.Wait()

	list, err := s.List(ctx)
	require.NoError(t, err)
	for _, sw := range list {
		assert.EqualValues(t, 0, sw.Quantity)
	}
}
