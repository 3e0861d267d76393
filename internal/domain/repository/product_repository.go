package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock y GetForUpdate existen para el motor de inventario: la existencia
// solo cambia dentro de una transacción con la fila bloqueada.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate obtiene el producto bloqueando la fila (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(id string) (*entity.Product, error)
	// List filtra por nombre (q, substring case-insensitive) y opcionalmente
	// por stock bajo (stock < min_stock, estricto), ordenado por nombre.
	List(q string, lowStock bool, limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(id string, stock int) error
	Delete(id string) error
}
