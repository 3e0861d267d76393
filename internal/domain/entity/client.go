package entity

import "time"

// Client representa un cliente al que se le registran ventas.
type Client struct {
	ID        string
	Name      string
	Surname   string
	Document  string // número de documento de identidad
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
