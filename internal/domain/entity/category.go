package entity

import "time"

// Category representa una categoría de productos. Se crea una sola vez y nunca
// se actualiza ni se elimina; los productos la referencian por ID.
type Category struct {
	ID          string
	Name        string // único, no vacío
	Description string
	CreatedAt   time.Time
}
