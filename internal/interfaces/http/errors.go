package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweets-api/internal/application/dto"
	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// statusFor traduce errores de dominio a status HTTP + código. ok=false para fallos internos.
func statusFor(err error) (status int, code, message string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "UNAUTHENTICATED", "token ausente, inválido o expirado", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas", true
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "acceso denegado", true
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "producto no encontrado", true
	case errors.Is(err, domain.ErrOutOfStock):
		return fiber.StatusBadRequest, "OUT_OF_STOCK", "producto agotado", true
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest, "INVALID_AMOUNT", "la cantidad debe ser un entero positivo", true
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return fiber.StatusBadRequest, "USER_EXISTS", "el usuario ya existe", true
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", err.Error(), true
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno del servidor", false
}

// writeError responde con dto.ErrorResponse. Los fallos internos se registran y se ocultan al cliente.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code, msg, ok := statusFor(err)
	if !ok {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("fallo interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, body demasiado grande, panics recuperados).
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
