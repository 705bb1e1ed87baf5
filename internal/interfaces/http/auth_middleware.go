package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweets-api/internal/application/authz"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// Locals keys para la identidad autorizada en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalPrincipal = "principal"
)

// Authorize valida el Bearer Token y el rol exigido por op antes de llegar al handler.
// Un fallo aquí termina la petición: el inventario nunca se toca.
func Authorize(gate *authz.Gate, op authz.Operation, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := gate.Authorize(authz.BearerToken(c.Get(fiber.HeaderAuthorization)), op)
		if err != nil {
			log.Debug().Err(err).Str("op", string(op)).Msg("petición rechazada")
			return writeError(c, log, err)
		}
		c.Locals(LocalPrincipal, p)
		c.Locals(LocalUserID, p.SubjectID)
		c.Locals(LocalRole, p.Role.String())
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetPrincipal devuelve la identidad completa autorizada, o nil.
func GetPrincipal(c *fiber.Ctx) *authz.Principal {
	p, _ := c.Locals(LocalPrincipal).(*authz.Principal)
	return p
}
