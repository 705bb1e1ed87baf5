package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserStore)(nil)

// KEYS[1] hash del usuario; ARGV pares campo/valor. 0 si ya existe.
var createUserScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// UserStore usuarios en Redis, un hash por email normalizado.
type UserStore struct {
	client goredis.UniversalClient
	prefix string
}

// NewUserStore construye el adaptador. prefix vacío usa DefaultPrefix.
func NewUserStore(client goredis.UniversalClient, prefix string) *UserStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &UserStore{client: client, prefix: prefix}
}

func (s *UserStore) key(email string) string {
	return s.prefix + "user:" + strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) Create(ctx context.Context, u *entity.User) error {
	res, err := createUserScript.Run(ctx, s.client, []string{s.key(u.Email)},
		"id", u.ID,
		"email", u.Email,
		"password_hash", u.PasswordHash,
		"role", u.Role.String(),
		"created_at", u.CreatedAt.UTC().Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return fmt.Errorf("redis create user: %w", err)
	}
	if res == resultExists {
		return domain.ErrDuplicateIdentity
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f, err := s.client.HGetAll(ctx, s.key(email)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get user: %w", err)
	}
	if len(f) == 0 {
		return nil, nil
	}
	role, err := entity.ParseRole(f["role"])
	if err != nil {
		return nil, fmt.Errorf("redis decode role: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, f["created_at"])
	if err != nil {
		return nil, fmt.Errorf("redis decode created_at: %w", err)
	}
	return &entity.User{
		ID:           f["id"],
		Email:        f["email"],
		PasswordHash: f["password_hash"],
		Role:         role,
		CreatedAt:    created,
	}, nil
}
