package ledger

import (
	"context"

	"github.com/pralka431/magazynek/internal/domain/entity"
	"github.com/pralka431/magazynek/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización de cantidad y el
// append al ledger se confirman o se revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error) error
}

// ViewCache es un cache de lectura sobre las dos vistas de listado (stock e
// historial). TTL corto e invalidación total tras cualquier escritura; no hay
// invalidación parcial. Un miss devuelve ok=false y el caller va a la BD.
type ViewCache interface {
	GetProducts(ctx context.Context) ([]*entity.ProductView, bool)
	SetProducts(ctx context.Context, list []*entity.ProductView)
	GetMovements(ctx context.Context, limit int) ([]*entity.MovementView, bool)
	SetMovements(ctx context.Context, limit int, list []*entity.MovementView)
	Invalidate(ctx context.Context)
}
