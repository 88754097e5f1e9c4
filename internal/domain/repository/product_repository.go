package repository

import (
	"github.com/shopspring/decimal"

	"github.com/pralka431/magazynek/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
//
// ApplyDelta y Merge son updates condicionales atómicos: el piso de cantidad
// no negativa lo garantiza el almacén en una sola sentencia, nunca un
// compare-then-write del caller.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	// ApplyDelta suma delta a la cantidad solo si el resultado es >= 0.
	// Devuelve el producto actualizado, o nil si ninguna fila cumplió la
	// condición (producto inexistente o stock insuficiente).
	ApplyDelta(productID string, delta int64) (*entity.Product, error)
	// Merge suma addQty a la cantidad y sobreescribe el precio unitario.
	// Devuelve nil si el producto no existe.
	Merge(productID string, addQty int64, unitPrice decimal.Decimal) (*entity.Product, error)
	List() ([]*entity.ProductView, error)
	// DeleteIfEmpty elimina el producto solo si su cantidad es 0.
	// Devuelve true si se eliminó una fila.
	DeleteIfEmpty(id string) (bool, error)
}
