// Package store elige el adaptador de persistencia según STORE_DRIVER.
package store

import (
	"context"
	"fmt"

	"github.com/jhoicas/sweets-api/internal/domain/repository"
	"github.com/jhoicas/sweets-api/internal/infrastructure/memory"
	"github.com/jhoicas/sweets-api/internal/infrastructure/postgres"
	redisstore "github.com/jhoicas/sweets-api/internal/infrastructure/redis"
	"github.com/jhoicas/sweets-api/pkg/config"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// Stores repositorios listos para los casos de uso. Close libera conexiones.
type Stores struct {
	Users  repository.UserRepository
	Sweets repository.SweetRepository
	Close  func()
}

// Open abre el driver configurado. Con postgres también aplica las migraciones.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("store PostgreSQL listo")
		return &Stores{
			Users:  postgres.NewUserRepository(pool),
			Sweets: postgres.NewSweetRepository(pool),
			Close:  pool.Close,
		}, nil

	case config.DriverRedis:
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("addr", cfg.Redis.Addr).Msg("store Redis listo")
		return &Stores{
			Users:  redisstore.NewUserStore(client, redisstore.DefaultPrefix),
			Sweets: redisstore.NewSweetStore(client, redisstore.DefaultPrefix),
			Close:  func() { _ = client.Close() },
		}, nil

	case config.DriverMemory, "":
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return &Stores{
			Users:  memory.NewUserStore(),
			Sweets: memory.NewSweetStore(),
			Close:  func() {},
		}, nil
	}
	return nil, fmt.Errorf("store driver desconocido %q", cfg.Store.Driver)
}
