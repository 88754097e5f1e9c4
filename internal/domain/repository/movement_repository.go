package repository

import "github.com/pralka431/magazynek/internal/domain/entity"

// MovementRepository define el puerto de persistencia para el ledger de
// movimientos. Los movimientos son append-only: se crean y se listan, nunca
// se actualizan ni se borran.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	// List devuelve hasta limit movimientos, más recientes primero (empates
	// por orden de inserción), con el nombre del producto resuelto en un join.
	List(limit int) ([]*entity.MovementView, error)
}
