package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock solo se modifica a través del libro de movimientos (inventario);
// la actualización de producto nunca toca Stock.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta de lista
	Stock       int             // existencia actual
	MinStock    int             // umbral de stock mínimo
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el producto está por debajo de su stock mínimo (estrictamente menor).
func (p *Product) IsLowStock() bool {
	return p.Stock < p.MinStock
}
