package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pralka431/magazynek/internal/application/dto"
	"github.com/pralka431/magazynek/internal/application/ledger"
)

// MovementHandler maneja las peticiones HTTP del historial de movimientos.
type MovementHandler struct {
	ledger *ledger.Ledger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(l *ledger.Ledger) *MovementHandler {
	return &MovementHandler{ledger: l}
}

// List devuelve el historial, más recientes primero.
// GET /api/movements?limit=N -> 200 {total, movements}.
func (h *MovementHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")
	list, err := h.ledger.ListMovements(c.Context(), limit)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(list),
		"movements": dto.ToMovementResponses(list),
	})
}
