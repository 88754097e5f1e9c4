package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pralka431/magazynek/internal/domain"
	"github.com/pralka431/magazynek/internal/domain/entity"
	"github.com/pralka431/magazynek/internal/domain/repository"
)

// Límites del historial de movimientos.
const (
	DefaultMovementLimit = 50
	MaxMovementLimit     = 100
)

// Ledger es la única autoridad sobre Product.Quantity y el único escritor de
// movimientos. Cada operación que cambia stock actualiza la cantidad y hace
// append al ledger dentro de una misma transacción.
type Ledger struct {
	txRunner     TxRunner
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	cache        ViewCache
}

// New construye el ledger con sus colaboradores de persistencia y cache.
func New(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
	cache ViewCache,
) *Ledger {
	return &Ledger{
		txRunner:     txRunner,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		cache:        cache,
	}
}

// CreateCategory crea una categoría nueva. Nombre vacío -> ErrInvalidInput;
// nombre repetido -> ErrDuplicate (constraint único en BD).
func (l *Ledger) CreateCategory(ctx context.Context, name, description string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := l.categoryRepo.Create(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// ListCategories lista las categorías para el selector del formulario.
func (l *Ledger) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	return l.categoryRepo.List()
}

// CreateOrMergeProduct da de alta un producto o, si ya existe uno con el mismo
// nombre exacto, fusiona sobre él: suma la cantidad y sobreescribe el precio
// unitario (sobreescribir, no promediar, es el comportamiento acordado). La
// categoría solo se exige para altas nuevas; en una fusión se ignora y la fila
// existente conserva la suya.
func (l *Ledger) CreateOrMergeProduct(ctx context.Context, name string, quantity int64, unitPrice decimal.Decimal, categoryID string) (*entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || quantity < 0 || unitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	var result *entity.Product

	err := l.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error {
		existing, err := products.GetByName(name)
		if err != nil {
			return err
		}
		if existing != nil {
			merged, err := products.Merge(existing.ID, quantity, unitPrice)
			if err != nil {
				return err
			}
			if merged == nil {
				return domain.ErrNotFound
			}
			result = merged
			// Cantidad 0 no mueve stock: no se escribe movimiento (el ledger
			// solo registra magnitudes positivas).
			if quantity == 0 {
				return nil
			}
			return movements.Create(&entity.Movement{
				ID:        uuid.New().String(),
				ProductID: merged.ID,
				Quantity:  quantity,
				Direction: entity.DirectionIn,
				Label:     entity.LabelDeliveryMerge,
				CreatedAt: now,
			})
		}

		if categoryID == "" {
			return domain.ErrInvalidInput
		}
		cat, err := l.categoryRepo.GetByID(categoryID)
		if err != nil {
			return err
		}
		if cat == nil {
			return domain.ErrNotFound
		}

		created := &entity.Product{
			ID:         uuid.New().String(),
			Name:       name,
			Quantity:   quantity,
			UnitPrice:  unitPrice,
			CategoryID: categoryID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := products.Create(created); err != nil {
			return err
		}
		result = created
		if quantity == 0 {
			return nil
		}
		return movements.Create(&entity.Movement{
			ID:        uuid.New().String(),
			ProductID: created.ID,
			Quantity:  quantity,
			Direction: entity.DirectionIn,
			Label:     entity.LabelNewProduct,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	l.cache.Invalidate(ctx)
	return result, nil
}

// ApplyStockDelta aplica un delta (positivo = entrega, negativo = emisión) y
// registra el movimiento correspondiente, todo en una transacción.
//
// currentQuantity es la última cantidad conocida por el caller; se acepta por
// compatibilidad con el formulario pero no se usa para el invariante: el piso
// de cantidad no negativa lo decide un update condicional atómico en la BD,
// nunca un compare-then-write sobre un valor posiblemente obsoleto.
//
// label vacío -> "DELIVERY" o "ISSUE" según el signo; el caller puede pasar
// cualquier texto (p.ej. el destinatario de una emisión).
func (l *Ledger) ApplyStockDelta(ctx context.Context, productID string, currentQuantity, delta int64, label string) (*entity.Product, error) {
	if productID == "" || delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	_ = currentQuantity

	label = strings.TrimSpace(label)
	if label == "" {
		label = entity.DefaultLabel(delta)
	}
	direction := entity.DirectionIn
	magnitude := delta
	if delta < 0 {
		direction = entity.DirectionOut
		magnitude = -delta
	}

	now := time.Now().UTC()
	var result *entity.Product

	err := l.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error {
		updated, err := products.ApplyDelta(productID, delta)
		if err != nil {
			return err
		}
		if updated == nil {
			// Ninguna fila cumplió la condición: o el producto no existe,
			// o el delta dejaría la cantidad por debajo de cero.
			existing, err := products.GetByID(productID)
			if err != nil {
				return err
			}
			if existing == nil {
				return domain.ErrNotFound
			}
			return domain.ErrInsufficientStock
		}
		result = updated
		return movements.Create(&entity.Movement{
			ID:        uuid.New().String(),
			ProductID: productID,
			Quantity:  magnitude,
			Direction: direction,
			Label:     label,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	l.cache.Invalidate(ctx)
	return result, nil
}

// ListMovements devuelve el historial, más recientes primero, con el nombre del
// producto resuelto (o el placeholder fijo si fue eliminado). limit <= 0 usa el
// valor por defecto; se recorta al máximo permitido.
func (l *Ledger) ListMovements(ctx context.Context, limit int) ([]*entity.MovementView, error) {
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	if limit > MaxMovementLimit {
		limit = MaxMovementLimit
	}
	if cached, ok := l.cache.GetMovements(ctx, limit); ok {
		return cached, nil
	}
	list, err := l.movementRepo.List(limit)
	if err != nil {
		return nil, err
	}
	l.cache.SetMovements(ctx, limit, list)
	return list, nil
}

// ListProducts devuelve la vista de stock actual (producto + nombre de
// categoría), ordenada por nombre.
func (l *Ledger) ListProducts(ctx context.Context) ([]*entity.ProductView, error) {
	if cached, ok := l.cache.GetProducts(ctx); ok {
		return cached, nil
	}
	list, err := l.productRepo.List()
	if err != nil {
		return nil, err
	}
	l.cache.SetProducts(ctx, list)
	return list, nil
}

// GetProduct obtiene un producto por ID.
func (l *Ledger) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := l.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// DeleteProduct elimina un producto. Solo se permite con cantidad 0: el ledger
// es la pista de auditoría y un borrado con stock restante la dejaría
// descuadrada, así que devuelve ErrConflict. Los movimientos del producto se
// conservan y el historial los muestra con el placeholder de eliminado.
func (l *Ledger) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	deleted, err := l.productRepo.DeleteIfEmpty(id)
	if err != nil {
		return err
	}
	if !deleted {
		existing, err := l.productRepo.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	l.cache.Invalidate(ctx)
	return nil
}
