package postgres

import (
	"context"

	"github.com/pralka431/magazynek/internal/domain/entity"
	"github.com/pralka431/magazynek/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL
// (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento. La columna seq (bigserial) fija el orden de
// inserción para desempatar timestamps iguales.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	query := `
		INSERT INTO movements (id, product_id, quantity, direction, label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Quantity,
		movement.Direction, movement.Label, movement.CreatedAt,
	)
	if err != nil {
		return storageError("insert movement", err)
	}
	return nil
}

// List devuelve hasta limit movimientos, más recientes primero (empates por
// orden de inserción). LEFT JOIN a products: si el producto fue eliminado, el
// nombre se sustituye por el placeholder fijo en vez de fallar.
func (r *MovementRepo) List(limit int) ([]*entity.MovementView, error) {
	query := `
		SELECT m.id, m.product_id, m.quantity, m.direction, m.label, m.created_at,
		       COALESCE(p.name, $2)
		FROM movements m
		LEFT JOIN products p ON p.id = m.product_id
		ORDER BY m.created_at DESC, m.seq DESC
		LIMIT $1`
	rows, err := r.q.Query(context.Background(), query, limit, entity.DeletedProductPlaceholder)
	if err != nil {
		return nil, storageError("list movements", err)
	}
	defer rows.Close()
	var list []*entity.MovementView
	for rows.Next() {
		var v entity.MovementView
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Quantity, &v.Direction,
			&v.Label, &v.CreatedAt, &v.ProductName); err != nil {
			return nil, storageError("scan movement", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}
