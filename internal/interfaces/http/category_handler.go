package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pralka431/magazynek/internal/application/dto"
	"github.com/pralka431/magazynek/internal/application/ledger"
)

// CategoryHandler maneja las peticiones HTTP de categorías.
type CategoryHandler struct {
	ledger *ledger.Ledger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(l *ledger.Ledger) *CategoryHandler {
	return &CategoryHandler{ledger: l}
}

// Create crea una categoría.
// POST /api/categories {name, description} -> 201 CategoryResponse.
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	cat, err := h.ledger.CreateCategory(c.Context(), in.Name, in.Description)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCategoryResponse(cat))
}

// List lista las categorías.
// GET /api/categories -> 200 [CategoryResponse].
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	list, err := h.ledger.ListCategories(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToCategoryResponses(list))
}
