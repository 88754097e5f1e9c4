package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/pralka431/magazynek/internal/domain"
	"github.com/pralka431/magazynek/internal/domain/entity"
	"github.com/pralka431/magazynek/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, quantity, COALESCE(unit_price, 0), category_id, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.UnitPrice, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto nuevo. Nombre repetido -> domain.ErrDuplicate.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, quantity, unit_price, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Quantity, product.UnitPrice,
		product.CategoryID, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storageError("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get product", err)
	}
	return p, nil
}

// GetByName obtiene un producto por nombre exacto (clave natural del formulario).
func (r *ProductRepo) GetByName(name string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("get product by name", err)
	}
	return p, nil
}

// ApplyDelta suma delta a la cantidad en un update condicional atómico: la fila
// solo cambia si el resultado queda >= 0. Devuelve nil cuando ninguna fila
// cumplió la condición (producto inexistente o stock insuficiente); el caller
// distingue ambos casos.
func (r *ProductRepo) ApplyDelta(productID string, delta int64) (*entity.Product, error) {
	query := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, productID, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("apply delta", err)
	}
	return p, nil
}

// Merge suma addQty a la cantidad y sobreescribe el precio unitario (la fusión
// por nombre nunca promedia precios). Devuelve nil si el producto no existe.
func (r *ProductRepo) Merge(productID string, addQty int64, unitPrice decimal.Decimal) (*entity.Product, error) {
	query := `
		UPDATE products
		SET quantity = quantity + $2, unit_price = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, productID, addQty, unitPrice))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storageError("merge product", err)
	}
	return p, nil
}

// List devuelve la vista de stock: productos con el nombre de su categoría
// resuelto en un join, ordenados por nombre.
func (r *ProductRepo) List() ([]*entity.ProductView, error) {
	query := `
		SELECT p.id, p.name, p.quantity, COALESCE(p.unit_price, 0), p.category_id, p.created_at, p.updated_at, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, storageError("list products", err)
	}
	defer rows.Close()
	var list []*entity.ProductView
	for rows.Next() {
		var v entity.ProductView
		if err := rows.Scan(&v.ID, &v.Name, &v.Quantity, &v.UnitPrice, &v.CategoryID,
			&v.CreatedAt, &v.UpdatedAt, &v.CategoryName); err != nil {
			return nil, storageError("scan product view", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// DeleteIfEmpty elimina el producto solo si su cantidad es 0 (condición en la
// misma sentencia para no correr contra escrituras concurrentes). Devuelve
// true si se eliminó una fila. Los movimientos del producto se conservan.
func (r *ProductRepo) DeleteIfEmpty(id string) (bool, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM products WHERE id = $1 AND quantity = 0`, id)
	if err != nil {
		return false, storageError("delete product", err)
	}
	return cmd.RowsAffected() > 0, nil
}
