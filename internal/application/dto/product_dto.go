package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pralka431/magazynek/internal/domain/entity"
)

// CreateProductRequest alta de producto (o fusión si el nombre ya existe).
// UnitPrice es opcional; ausente se trata como 0.
type CreateProductRequest struct {
	Name       string           `json:"name"`
	Quantity   int64            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	CategoryID string           `json:"category_id"`
}

// StockDeltaRequest entrega (delta > 0) o emisión (delta < 0) de stock.
// CurrentQuantity es la última cantidad vista por el formulario; Label es
// opcional (texto libre, p.ej. destinatario de una emisión).
type StockDeltaRequest struct {
	CurrentQuantity int64  `json:"current_quantity"`
	Delta           int64  `json:"delta"`
	Label           string `json:"label"`
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Quantity:   p.Quantity,
		UnitPrice:  p.UnitPrice,
		CategoryID: p.CategoryID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// ToProductViewResponses mapea la vista de stock (producto + categoría).
func ToProductViewResponses(list []*entity.ProductView) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, v := range list {
		r := ToProductResponse(&v.Product)
		r.CategoryName = v.CategoryName
		out = append(out, r)
	}
	return out
}
