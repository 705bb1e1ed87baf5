package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// UserStore credenciales en memoria, indexadas por email normalizado.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]entity.User
}

func NewUserStore() *UserStore {
	return &UserStore{byEmail: make(map[string]entity.User)}
}

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	key := normalizeEmail(user.Email)
	if key == "" || user.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return domain.ErrDuplicateIdentity
	}
	s.byEmail[key] = *user
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
