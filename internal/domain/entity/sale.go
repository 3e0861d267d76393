package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa la cabecera de una venta. Code es único; Date se fija al crear
// y no cambia; Total es derivado (suma de subtotales de los items).
type Sale struct {
	ID        string
	Code      string
	ClientID  string
	Date      time.Time
	Total     decimal.Decimal
	CreatedAt time.Time
}

// SaleItem representa una línea de una venta. Subtotal es derivado
// (Quantity x UnitPrice). Se elimina en cascada con la venta.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
