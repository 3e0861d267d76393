package entity

import "time"

// Roles válidos para User. Corresponden a los grupos del sistema:
// admin tiene acceso total, stock opera inventario, ventas opera clientes y ventas.
const (
	RoleAdmin  = "admin"
	RoleStock  = "stock"
	RoleVentas = "ventas"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Username     string
	Name         string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Role         string // admin, stock, ventas
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
