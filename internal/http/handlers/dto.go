package handlers

import (
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/notify"
)

// Envelope is the body of every JSON response. Redirect carries the
// route the session provider navigated to during the request.
type Envelope struct {
	OK            bool                  `json:"ok"`
	Data          any                   `json:"data,omitempty"`
	Redirect      string                `json:"redirect,omitempty"`
	Notifications []notify.Notification `json:"notifications"`
	Errors        map[string]string     `json:"errors,omitempty"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResult struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type QuantityAdjustmentRequest struct {
	Delta int `json:"delta"` // can be positive or negative
}

type ImportInventoryResult struct {
	ImportedCount int      `json:"imported"`
	Errors        []string `json:"errors"`
}
