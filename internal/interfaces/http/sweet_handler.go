package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sweets-api/internal/application/dto"
	"github.com/jhoicas/sweets-api/internal/application/inventory"
	"github.com/jhoicas/sweets-api/internal/domain"
	"github.com/jhoicas/sweets-api/pkg/logger"
)

// SweetHandler maneja las peticiones HTTP del inventario (protegido).
type SweetHandler struct {
	uc  *inventory.SweetUseCase
	log *logger.Logger
}

// NewSweetHandler construye el handler.
func NewSweetHandler(uc *inventory.SweetUseCase, log *logger.Logger) *SweetHandler {
	return &SweetHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Agregar producto (solo ADMIN)
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSweetRequest  true  "name, category, price, quantity"
// @Success      201   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/sweets [post]
func (h *SweetHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSweetRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddSweet(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SweetResponse
// @Router       /api/sweets [get]
func (h *SweetHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListSweets(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SweetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id} [get]
func (h *SweetHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetSweet(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Purchase godoc
// @Summary      Comprar una unidad
// @Tags         sweets
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SweetResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/purchase [post]
func (h *SweetHandler) Purchase(c *fiber.Ctx) error {
	out, err := h.uc.Purchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Restock godoc
// @Summary      Reabastecer producto (solo ADMIN)
// @Tags         sweets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del producto"
// @Param        body  body  dto.RestockRequest  true  "amount"
// @Success      200   {object}  dto.SweetResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sweets/{id}/restock [post]
func (h *SweetHandler) Restock(c *fiber.Ctx) error {
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return writeError(c, h.log, domain.ErrInvalidAmount)
	}
	amount, ok := in.Value()
	if !ok {
		return writeError(c, h.log, domain.ErrInvalidAmount)
	}
	out, err := h.uc.Restock(c.UserContext(), c.Params("id"), amount)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
