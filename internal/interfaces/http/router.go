package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweets-api/internal/application/auth"
	"github.com/jhoicas/sweets-api/internal/application/authz"
	"github.com/jhoicas/sweets-api/internal/application/inventory"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC  *auth.AuthUseCase
	SweetUC *inventory.SweetUseCase
	Gate    *authz.Gate
	Log     *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Sweets: cada ruta declara su operación; el gate aplica la tabla de roles.
	sweets := api.Group("/sweets")
	sweetHandler := NewSweetHandler(deps.SweetUC, log)
	sweets.Get("/", Authorize(deps.Gate, authz.OpListSweets, log), sweetHandler.List)
	sweets.Post("/", Authorize(deps.Gate, authz.OpAddSweet, log), sweetHandler.Create)
	sweets.Get("/:id", Authorize(deps.Gate, authz.OpGetSweet, log), sweetHandler.GetByID)
	sweets.Post("/:id/purchase", Authorize(deps.Gate, authz.OpPurchase, log), sweetHandler.Purchase)
	sweets.Post("/:id/restock", Authorize(deps.Gate, authz.OpRestockSweet, log), sweetHandler.Restock)
}
