package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetStore)(nil)

// Códigos de resultado de los scripts.
const (
	resultNotFound   = -1
	resultOutOfStock = -2
	resultOverflow   = -3
	resultExists     = 0
)

// KEYS[1] hash del producto, KEYS[2] lista de orden; ARGV[1] id, ARGV[2..] pares campo/valor.
var createSweetScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
redis.call('RPUSH', KEYS[2], ARGV[1])
return 1
`)

// KEYS[1] hash del producto; ARGV[1] updated_at.
var purchaseScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local current = tonumber(redis.call('HGET', KEYS[1], 'quantity'))
if current <= 0 then
	return -2
end
redis.call('HINCRBY', KEYS[1], 'quantity', -1)
redis.call('HSET', KEYS[1], 'updated_at', ARGV[1])
return redis.call('HGETALL', KEYS[1])
`)

// KEYS[1] hash del producto; ARGV[1] amount, ARGV[2] updated_at.
var restockScript = goredis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local ok = redis.pcall('HINCRBY', KEYS[1], 'quantity', ARGV[1])
if type(ok) == 'table' and ok.err then
	return -3
end
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
return redis.call('HGETALL', KEYS[1])
`)

// SweetStore inventario en Redis: un hash por producto y una lista con el orden de inserción.
type SweetStore struct {
	client goredis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSweetStore construye el adaptador. prefix vacío usa DefaultPrefix.
func NewSweetStore(client goredis.UniversalClient, prefix string) *SweetStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &SweetStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SweetStore) key(id string) string { return s.prefix + "sweet:" + id }
func (s *SweetStore) orderKey() string     { return s.prefix + "sweets:order" }

func (s *SweetStore) Create(ctx context.Context, sw *entity.Sweet) error {
	if sw.ID == "" || sw.Quantity < 0 {
		return domain.ErrInvalidInput
	}
	args := []interface{}{
		sw.ID,
		"id", sw.ID,
		"name", sw.Name,
		"category", sw.Category,
		"price", sw.Price.String(),
		"quantity", sw.Quantity,
		"created_at", sw.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at", sw.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	res, err := createSweetScript.Run(ctx, s.client, []string{s.key(sw.ID), s.orderKey()}, args...).Int()
	if err != nil {
		return fmt.Errorf("redis create sweet: %w", err)
	}
	if res == resultExists {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *SweetStore) List(ctx context.Context) ([]*entity.Sweet, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list sweets: %w", err)
	}
	out := make([]*entity.Sweet, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis list sweets: %w", err)
	}
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		sw, err := decodeSweet(fields)
		if err != nil {
			return nil, err
		}
		out = append(out, sw)
	}
	return out, nil
}

func (s *SweetStore) GetByID(ctx context.Context, id string) (*entity.Sweet, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get sweet: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}
	return decodeSweet(fields)
}

func (s *SweetStore) Purchase(ctx context.Context, id string) (*entity.Sweet, error) {
	res, err := purchaseScript.Run(ctx, s.client, []string{s.key(id)}, s.stamp()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis purchase: %w", err)
	}
	return scriptResult(res)
}

func (s *SweetStore) Restock(ctx context.Context, id string, amount int64) (*entity.Sweet, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	res, err := restockScript.Run(ctx, s.client, []string{s.key(id)}, amount, s.stamp()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis restock: %w", err)
	}
	return scriptResult(res)
}

func (s *SweetStore) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func scriptResult(res interface{}) (*entity.Sweet, error) {
	switch v := res.(type) {
	case int64:
		switch v {
		case resultNotFound:
			return nil, domain.ErrNotFound
		case resultOutOfStock:
			return nil, domain.ErrOutOfStock
		case resultOverflow:
			return nil, domain.ErrInvalidAmount
		}
		return nil, fmt.Errorf("redis: resultado inesperado %d", v)
	case []interface{}:
		return decodeSweet(pairs(v))
	}
	return nil, errors.New("redis: respuesta de script desconocida")
}

func decodeSweet(f map[string]string) (*entity.Sweet, error) {
	price, err := decimal.NewFromString(f["price"])
	if err != nil {
		return nil, fmt.Errorf("redis decode price: %w", err)
	}
	qty, err := strconv.ParseInt(f["quantity"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis decode quantity: %w", err)
	}
	created, err := time.Parse(time.RFC3339Nano, f["created_at"])
	if err != nil {
		return nil, fmt.Errorf("redis decode created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, f["updated_at"])
	if err != nil {
		return nil, fmt.Errorf("redis decode updated_at: %w", err)
	}
	return &entity.Sweet{
		ID:        f["id"],
		Name:      f["name"],
		Category:  f["category"],
		Price:     price,
		Quantity:  qty,
		CreatedAt: created,
		UpdatedAt: updated,
	}, nil
}
