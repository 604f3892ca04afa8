package models

import "time"

// Customer represents a buyer tracked by the business owner.
type Customer struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email,omitempty"`
	TotalPurchases float64   `json:"total_purchases"`
	LastVisit      time.Time `json:"last_visit"`
}
