package dto

import (
	"time"

	"github.com/pralka431/magazynek/internal/domain/entity"
)

// MovementResponse fila del historial de movimientos.
type MovementResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int64     `json:"quantity"`
	Direction   string    `json:"direction"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToMovementResponses mapea la vista del historial.
func ToMovementResponses(list []*entity.MovementView) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, v := range list {
		out = append(out, MovementResponse{
			ID:          v.ID,
			ProductID:   v.ProductID,
			ProductName: v.ProductName,
			Quantity:    v.Quantity,
			Direction:   v.Direction,
			Label:       v.Label,
			CreatedAt:   v.CreatedAt,
		})
	}
	return out
}
