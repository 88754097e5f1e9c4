package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/pralka431/magazynek/internal/application/dto"
	"github.com/pralka431/magazynek/internal/application/ledger"
)

// ProductHandler maneja las peticiones HTTP de productos y deltas de stock.
type ProductHandler struct {
	ledger *ledger.Ledger
}

// NewProductHandler construye el handler.
func NewProductHandler(l *ledger.Ledger) *ProductHandler {
	return &ProductHandler{ledger: l}
}

// Create da de alta un producto, o fusiona sobre el existente si el nombre
// coincide (la fila fusionada suma cantidad y sobreescribe precio).
// POST /api/products {name, quantity, unit_price, category_id} -> 201 ProductResponse.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	unitPrice := decimal.Zero
	if in.UnitPrice != nil {
		unitPrice = *in.UnitPrice
	}
	p, err := h.ledger.CreateOrMergeProduct(c.Context(), in.Name, in.Quantity, unitPrice, in.CategoryID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(p))
}

// List devuelve la vista de stock actual (producto + categoría).
// GET /api/products -> 200 [ProductResponse].
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.ledger.ListProducts(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductViewResponses(list))
}

// GetByID obtiene un producto.
// GET /api/products/:id -> 200 ProductResponse.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	p, err := h.ledger.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Delete elimina un producto sin stock. Con stock restante responde 409.
// DELETE /api/products/:id -> 204.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.ledger.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ApplyDelta registra una entrega (delta > 0) o emisión (delta < 0) de stock.
// POST /api/products/:id/movements {current_quantity, delta, label} -> 201 ProductResponse.
func (h *ProductHandler) ApplyDelta(c *fiber.Ctx) error {
	var in dto.StockDeltaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.ledger.ApplyStockDelta(c.Context(), c.Params("id"), in.CurrentQuantity, in.Delta, in.Label)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(p))
}
