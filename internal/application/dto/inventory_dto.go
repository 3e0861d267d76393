package dto

import "time"

// RegisterMovementRequest body para POST /api/products/:id/movements.
type RegisterMovementRequest struct {
	Type     string `json:"type" validate:"required,oneof=IN OUT"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason"`
}

// AdjustStockRequest body para POST /api/products/:id/adjust-stock.
// Quantity es el valor absoluto al que debe quedar la existencia.
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Reason   string `json:"reason"`
}

// MovementResponse salida de un movimiento de stock.
type MovementResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Date      time.Time `json:"date"`
	CreatedBy string    `json:"created_by"`
}
