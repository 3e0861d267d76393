package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// StockMovement representa un movimiento de stock (entrada o salida).
// Es inmutable una vez creado: el libro de movimientos es append-only y
// solo lo escribe el caso de uso de inventario.
type StockMovement struct {
	ID        string
	ProductID string
	Type      string // IN, OUT
	Quantity  int    // siempre positivo; el tipo indica el signo
	Reason    string // motivo: compra, venta, ajuste, merma, etc.
	Date      time.Time
	CreatedBy string // etiqueta del usuario que registró el movimiento
}
