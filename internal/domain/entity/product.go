package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del almacén. Name funciona como clave natural:
// las altas con nombre existente se fusionan sobre la fila existente en lugar de
// crear una nueva. Quantity solo se modifica a través del ledger de movimientos
// y nunca es negativa.
type Product struct {
	ID         string
	Name       string
	Quantity   int64
	UnitPrice  decimal.Decimal // precio unitario; columna nullable en BD, 0 cuando falta
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProductView es la fila de la vista de stock: producto con el nombre de su
// categoría resuelto en un solo join.
type ProductView struct {
	Product
	CategoryName string
}
