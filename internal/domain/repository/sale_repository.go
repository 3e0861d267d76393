package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para Sale y sus items.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	UpdateTotal(saleID string, total decimal.Decimal) error
	GetByID(id string) (*entity.Sale, error)
	GetByCode(code string) (*entity.Sale, error)
	GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error)
	// List filtra por q (substring case-insensitive sobre código de venta,
	// nombre y apellido del cliente), ordenado por fecha descendente.
	List(q string, limit, offset int) ([]*entity.Sale, error)
}
