package models

import "time"

// InventoryItem represents a stocked product. An item is low on stock
// once Quantity drops to ReorderLevel or below.
type InventoryItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Quantity     int       `json:"quantity"`
	UnitPrice    float64   `json:"unit_price"`
	ReorderLevel int       `json:"reorder_level"`
	CreatedAt    time.Time `json:"created_at"`
}

func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.ReorderLevel
}
