// seed carga el catálogo de ejemplo y, si ADMIN_EMAIL/ADMIN_PASSWORD están definidos, el admin inicial.
//
// Uso: STORE_DRIVER=postgres go run ./cmd/seed
// Solo tiene efecto con un store persistente (postgres o redis).
package main

import (
	"context"
	"time"

	"github.com/jhoicas/sweets-api/internal/application/auth"
	"github.com/jhoicas/sweets-api/internal/application/inventory"
	"github.com/jhoicas/sweets-api/internal/infrastructure/store"
	"github.com/jhoicas/sweets-api/pkg/config"
	"github.com/jhoicas/sweets-api/pkg/jwt"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")

	if cfg.Store.Driver == config.DriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: el seed se pierde al terminar el proceso")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer stores.Close()

	if cfg.Auth.AdminEmail != "" {
		codec, err := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			log.Fatal().Err(err).Msg("codec JWT")
		}
		authUC, err := auth.NewAuthUseCase(stores.Users, codec, cfg.Auth.BcryptCost, log)
		if err != nil {
			log.Fatal().Err(err).Msg("caso de uso auth")
		}
		if err := authUC.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("crear admin")
		}
	}

	n, err := inventory.NewSweetUseCase(stores.Sweets, log).Seed(ctx, inventory.SampleCatalog())
	if err != nil {
		log.Fatal().Err(err).Msg("seed de inventario")
	}
	log.Info().Int("created", n).Msg("seed completado")
}
