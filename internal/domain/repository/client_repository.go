package repository

import "github.com/tu-usuario/inventario-api/internal/domain/entity"

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	// List filtra por q (substring case-insensitive sobre nombre, apellido y
	// documento), ordenado por apellido y nombre.
	List(q string, limit, offset int) ([]*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
}
