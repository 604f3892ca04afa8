package models

import "time"

type Sale struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Product  string    `json:"product"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
	Customer *string   `json:"customer,omitempty"`
	SaleDate time.Time `json:"sale_date"`
}

// Total is the revenue of the sale.
func (s Sale) Total() float64 {
	return float64(s.Quantity) * s.Price
}
