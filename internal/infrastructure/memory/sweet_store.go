package memory

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetStore)(nil)

// SweetStore inventario en memoria. El mapa y el orden de inserción se protegen con mu;
// la cantidad de cada producto con el mutex de su slot, de modo que compras sobre
// productos distintos no compiten entre sí.
type SweetStore struct {
	mu    sync.RWMutex
	order []*slot
	byID  map[string]*slot
	now   func() time.Time
}

type slot struct {
	mu    sync.Mutex
	sweet entity.Sweet
}

func NewSweetStore() *SweetStore {
	return &SweetStore{
		byID: make(map[string]*slot),
		now:  time.Now,
	}
}

func (s *SweetStore) Create(_ context.Context, sweet *entity.Sweet) error {
	id := strings.TrimSpace(sweet.ID)
	if id == "" || sweet.Quantity < 0 {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; exists {
		return domain.ErrInvalidInput
	}
	sl := &slot{sweet: *sweet}
	s.byID[id] = sl
	s.order = append(s.order, sl)
	return nil
}

func (s *SweetStore) List(_ context.Context) ([]*entity.Sweet, error) {
	s.mu.RLock()
	slots := make([]*slot, len(s.order))
	copy(slots, s.order)
	s.mu.RUnlock()

	out := make([]*entity.Sweet, 0, len(slots))
	for _, sl := range slots {
		out = append(out, sl.snapshot())
	}
	return out, nil
}

func (s *SweetStore) GetByID(_ context.Context, id string) (*entity.Sweet, error) {
	sl, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return sl.snapshot(), nil
}

func (s *SweetStore) Purchase(_ context.Context, id string) (*entity.Sweet, error) {
	sl, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.sweet.Quantity <= 0 {
		return nil, domain.ErrOutOfStock
	}
	sl.sweet.Quantity--
	sl.sweet.UpdatedAt = s.now()
	return sl.sweet.Clone(), nil
}

func (s *SweetStore) Restock(_ context.Context, id string, amount int64) (*entity.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	sl, ok := s.lookup(id)
	if !ok {
		return nil, domain.ErrNotFound
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.sweet.Quantity > math.MaxInt64-amount {
		return nil, domain.ErrInvalidAmount
	}
	sl.sweet.Quantity += amount
	sl.sweet.UpdatedAt = s.now()
	return sl.sweet.Clone(), nil
}

func (s *SweetStore) lookup(id string) (*slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.byID[strings.TrimSpace(id)]
	return sl, ok
}

func (sl *slot) snapshot() *entity.Sweet {
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.sweet.Clone()
}
