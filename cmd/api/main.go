package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/sweets-api/internal/application/auth"
	"github.com/jhoicas/sweets-api/internal/application/authz"
	"github.com/jhoicas/sweets-api/internal/application/inventory"
	"github.com/jhoicas/sweets-api/internal/domain/entity"
	"github.com/jhoicas/sweets-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/sweets-api/internal/interfaces/http"
	"github.com/jhoicas/sweets-api/pkg/config"
	"github.com/jhoicas/sweets-api/pkg/jwt"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer stores.Close()

	roles := make([]string, 0, len(entity.Roles()))
	for _, r := range entity.Roles() {
		roles = append(roles, r.String())
	}
	codec, err := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer, jwt.WithRoles(roles...))
	if err != nil {
		log.Fatal().Err(err).Msg("codec JWT")
	}

	authUC, err := auth.NewAuthUseCase(stores.Users, codec, cfg.Auth.BcryptCost, log)
	if err != nil {
		log.Fatal().Err(err).Msg("caso de uso auth")
	}
	sweetUC := inventory.NewSweetUseCase(stores.Sweets, log)

	// Admin inicial: única vía para crear identidades ADMIN.
	if cfg.Auth.AdminEmail != "" {
		if err := authUC.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("crear admin inicial")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Sweets API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:  authUC,
		SweetUC: sweetUC,
		Gate:    authz.NewGate(codec, nil),
		Log:     log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
