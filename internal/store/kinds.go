package store

import (
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/models"
)

func stampTime(t *time.Time, now time.Time) {
	if t.IsZero() {
		*t = now
	}
}

var Customers = Kind[models.Customer]{
	Table:   "customers",
	OrderBy: "last_visit",
	Columns: []string{"id", "user_id", "name", "phone", "email", "total_purchases", "last_visit"},
	Fields: func(c *models.Customer) []any {
		return []any{&c.ID, &c.UserID, &c.Name, &c.Phone, &c.Email, &c.TotalPurchases, &c.LastVisit}
	},
	Stamp: func(c *models.Customer, now time.Time) { stampTime(&c.LastVisit, now) },
}

var Expenses = Kind[models.Expense]{
	Table:   "expenses",
	OrderBy: "expense_date",
	Columns: []string{"id", "user_id", "category", "amount", "description", "expense_date"},
	Fields: func(e *models.Expense) []any {
		return []any{&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Description, &e.ExpenseDate}
	},
	Stamp: func(e *models.Expense, now time.Time) { stampTime(&e.ExpenseDate, now) },
}

var Inventory = Kind[models.InventoryItem]{
	Table:   "inventory",
	OrderBy: "created_at",
	Columns: []string{"id", "user_id", "name", "category", "quantity", "unit_price", "reorder_level", "created_at"},
	Fields: func(i *models.InventoryItem) []any {
		return []any{&i.ID, &i.UserID, &i.Name, &i.Category, &i.Quantity, &i.UnitPrice, &i.ReorderLevel, &i.CreatedAt}
	},
	Stamp: func(i *models.InventoryItem, now time.Time) { stampTime(&i.CreatedAt, now) },
}

var Sales = Kind[models.Sale]{
	Table:   "sales",
	OrderBy: "sale_date",
	Columns: []string{"id", "user_id", "product", "quantity", "price", "customer", "sale_date"},
	Fields: func(s *models.Sale) []any {
		return []any{&s.ID, &s.UserID, &s.Product, &s.Quantity, &s.Price, &s.Customer, &s.SaleDate}
	},
	Stamp: func(s *models.Sale, now time.Time) { stampTime(&s.SaleDate, now) },
}

var Profiles = Kind[models.Profile]{
	Table:   "profiles",
	OrderBy: "created_at",
	Columns: []string{"id", "user_id", "full_name", "phone", "email", "business_name", "business_type",
		"business_location", "preferred_language", "created_at"},
	Fields: func(p *models.Profile) []any {
		return []any{&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.Email, &p.BusinessName, &p.BusinessType,
			&p.BusinessLocation, &p.PreferredLanguage, &p.CreatedAt}
	},
	Stamp: func(p *models.Profile, now time.Time) {
		stampTime(&p.CreatedAt, now)
		if p.PreferredLanguage == "" {
			p.PreferredLanguage = models.DefaultLanguage
		}
	},
}

var SubscriptionTiers = Kind[models.SubscriptionTier]{
	Table:   "subscription_tiers",
	OrderBy: "created_at",
	Columns: []string{"id", "user_id", "tier", "created_at"},
	Fields: func(s *models.SubscriptionTier) []any {
		return []any{&s.ID, &s.UserID, &s.Tier, &s.CreatedAt}
	},
	Stamp: func(s *models.SubscriptionTier, now time.Time) {
		stampTime(&s.CreatedAt, now)
		if s.Tier == "" {
			s.Tier = models.TierFree
		}
	},
}

var NotificationSettings = Kind[models.NotificationSettings]{
	Table:   "user_notification_settings",
	OrderBy: "created_at",
	Columns: []string{"id", "user_id", "low_stock_alerts", "daily_summary", "created_at"},
	Fields: func(n *models.NotificationSettings) []any {
		return []any{&n.ID, &n.UserID, &n.LowStockAlerts, &n.DailySummary, &n.CreatedAt}
	},
	Stamp: func(n *models.NotificationSettings, now time.Time) { stampTime(&n.CreatedAt, now) },
}
