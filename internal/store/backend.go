package store

import (
	"context"
	"database/sql"

	"github.com/rogerio-castellano/sabiboss/internal/models"
)

// Backend bundles the tables of one remote store.
type Backend struct {
	Hub       *Hub
	Customers Table[models.Customer]
	Expenses  Table[models.Expense]
	Inventory Table[models.InventoryItem]
	Sales     Table[models.Sale]
	Accounts  *Accounts
}

func NewMemoryBackend() *Backend {
	hub := NewHub()
	return &Backend{
		Hub:       hub,
		Customers: NewMemoryTable(Customers, hub),
		Expenses:  NewMemoryTable(Expenses, hub),
		Inventory: NewMemoryTable(Inventory, hub),
		Sales:     NewMemoryTable(Sales, hub),
		Accounts: &Accounts{
			Profiles: NewMemoryTable(Profiles, hub),
			Tiers:    NewMemoryTable(SubscriptionTiers, hub),
			Settings: NewMemoryTable(NotificationSettings, hub),
		},
	}
}

// NewPostgresBackend builds tables on db. Run a Listener on the same
// hub to receive change notifications.
func NewPostgresBackend(db *sql.DB, hub *Hub) *Backend {
	return &Backend{
		Hub:       hub,
		Customers: NewPostgresTable(db, Customers, hub),
		Expenses:  NewPostgresTable(db, Expenses, hub),
		Inventory: NewPostgresTable(db, Inventory, hub),
		Sales:     NewPostgresTable(db, Sales, hub),
		Accounts: &Accounts{
			Profiles: NewPostgresTable(db, Profiles, hub),
			Tiers:    NewPostgresTable(db, SubscriptionTiers, hub),
			Settings: NewPostgresTable(db, NotificationSettings, hub),
		},
	}
}

// Accounts holds the auxiliary per-identity records created at sign-up.
type Accounts struct {
	Profiles Table[models.Profile]
	Tiers    Table[models.SubscriptionTier]
	Settings Table[models.NotificationSettings]
}

func (a *Accounts) CreateProfile(ctx context.Context, p models.Profile) error {
	_, err := a.Profiles.Insert(ctx, p)
	return err
}

func (a *Accounts) CreateSubscription(ctx context.Context, s models.SubscriptionTier) error {
	_, err := a.Tiers.Insert(ctx, s)
	return err
}

func (a *Accounts) CreateNotificationSettings(ctx context.Context, n models.NotificationSettings) error {
	_, err := a.Settings.Insert(ctx, n)
	return err
}
