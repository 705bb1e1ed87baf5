// Package redis implementa los repositorios de usuarios e inventario sobre Redis.
// Las mutaciones de cantidad corren como scripts Lua, atómicos en el servidor.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/sweets-api/pkg/config"
)

// DefaultPrefix prefijo de todas las claves que escribe la app.
const DefaultPrefix = "sweets-api:"

// NewClient crea el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// pairs convierte la respuesta plana de HGETALL en un mapa.
func pairs(raw []interface{}) map[string]string {
	out := make(map[string]string, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		k, _ := raw[i].(string)
		v, _ := raw[i+1].(string)
		out[k] = v
	}
	return out
}
