package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pralka431/magazynek/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger *ledger.Ledger
}

// Router registra las rutas de la API. El formulario web es el único
// consumidor; no hay autenticación.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.Ledger)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)

	// Products y deltas de stock
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Ledger)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/movements", productHandler.ApplyDelta)

	// Historial de movimientos
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.Ledger)
	movements.Get("/", movementHandler.List)
}
