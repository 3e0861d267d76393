package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// StockMovementRepository define el puerto de persistencia para StockMovement.
// El libro es append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	// ListByProduct lista los movimientos más recientes de un producto,
	// ordenados por fecha descendente.
	ListByProduct(productID string, limit int) ([]*entity.StockMovement, error)
	CountByProduct(productID string) (int, error)
}
