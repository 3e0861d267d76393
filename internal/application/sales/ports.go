package sales

import (
	"context"
	"time"

	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios que necesita la creación de ventas. Cabecera, items,
// descuentos de stock y movimientos se confirman juntos o ninguno.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// StockLedger es el contrato mínimo que la venta necesita del motor de stock:
// descontar existencia dentro de la transacción en curso dejando su movimiento
// de auditoría. Lo implementa inventory.RegisterMovementUseCase; la interfaz
// evita el acople directo entre ambos casos de uso.
type StockLedger interface {
	RegisterOutInTx(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productID string,
		quantity int,
		reason, actor string,
		now time.Time,
	) (*entity.StockMovement, error)
}
