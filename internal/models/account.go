package models

import "time"

const (
	DefaultLanguage = "en"
	TierFree        = "free"
)

// Profile holds the business details collected at sign-up.
type Profile struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	FullName          string    `json:"full_name"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	BusinessName      *string   `json:"business_name,omitempty"`
	BusinessType      *string   `json:"business_type,omitempty"`
	BusinessLocation  *string   `json:"business_location,omitempty"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
}

type SubscriptionTier struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Tier      string    `json:"tier"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationSettings struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	LowStockAlerts bool      `json:"low_stock_alerts"`
	DailySummary   bool      `json:"daily_summary"`
	CreatedAt      time.Time `json:"created_at"`
}
