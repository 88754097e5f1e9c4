package entity

import "time"

// Direcciones de movimiento.
const (
	DirectionIn  = "in"  // entrada (entrega, alta, fusión)
	DirectionOut = "out" // salida (emisión a un destinatario)
)

// Etiquetas generadas por el propio ledger. Cualquier otra etiqueta es texto
// libre del caller (normalmente el nombre del destinatario de una salida).
const (
	LabelNewProduct    = "NEW PRODUCT"
	LabelDelivery      = "DELIVERY"
	LabelDeliveryMerge = "DELIVERY (MERGED)"
	LabelIssue         = "ISSUE"
)

// DeletedProductPlaceholder se muestra en el historial cuando el producto de un
// movimiento ya no existe (la referencia queda colgante tras un borrado).
const DeletedProductPlaceholder = "(producto eliminado)"

// Movement es un registro append-only del ledger: un evento que cambió la
// cantidad de un producto. Quantity siempre es la magnitud positiva; la
// dirección va en Direction. Label conserva además el texto original
// (etiqueta del sistema o nota libre del caller).
type Movement struct {
	ID        string
	ProductID string
	Quantity  int64 // magnitud del movimiento, > 0 (valor absoluto del delta)
	Direction string
	Label     string
	CreatedAt time.Time
}

// MovementView es la fila del historial: movimiento con el nombre actual del
// producto resuelto, o DeletedProductPlaceholder si ya no existe.
type MovementView struct {
	Movement
	ProductName string
}

// inboundLabels es la lista cerrada de etiquetas que clasifican como entrada.
// Los datos históricos guardaban solo la etiqueta (sin dirección explícita), así
// que la clasificación para mostrar el historial depende exactamente de esta
// lista: toda etiqueta fuera de ella cuenta como salida.
var inboundLabels = map[string]struct{}{
	LabelDelivery:      {},
	LabelNewProduct:    {},
	LabelDeliveryMerge: {},
}

// DirectionForLabel deriva la dirección de un movimiento a partir de su
// etiqueta. Es total: cualquier string clasifica, y siempre igual.
func DirectionForLabel(label string) string {
	if _, ok := inboundLabels[label]; ok {
		return DirectionIn
	}
	return DirectionOut
}

// DefaultLabel devuelve la etiqueta que el ledger asigna cuando el caller no
// indica una: DELIVERY para deltas positivos, ISSUE para negativos.
func DefaultLabel(delta int64) string {
	if delta > 0 {
		return LabelDelivery
	}
	return LabelIssue
}
