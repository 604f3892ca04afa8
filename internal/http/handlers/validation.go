package handlers

import (
	"strings"

	"github.com/rogerio-castellano/sabiboss/internal/models"
)

type Violations map[string]string

func required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = field + " is required"
	}
}

func validateCustomer(c models.Customer) Violations {
	v := Violations{}
	required("name", c.Name, v)
	required("phone", c.Phone, v)
	if c.TotalPurchases < 0 {
		v["total_purchases"] = "total_purchases cannot be negative"
	}
	return v
}

func validateExpense(e models.Expense) Violations {
	v := Violations{}
	required("category", e.Category, v)
	if e.Amount <= 0 {
		v["amount"] = "amount must be greater than zero"
	}
	return v
}

func validateInventoryItem(i models.InventoryItem) Violations {
	v := Violations{}
	required("name", i.Name, v)
	if i.Quantity < 0 {
		v["quantity"] = "quantity cannot be negative"
	}
	if i.UnitPrice < 0 {
		v["unit_price"] = "unit_price cannot be negative"
	}
	if i.ReorderLevel < 0 {
		v["reorder_level"] = "reorder_level cannot be negative"
	}
	return v
}

func validateSale(s models.Sale) Violations {
	v := Violations{}
	required("product", s.Product, v)
	if s.Quantity <= 0 {
		v["quantity"] = "quantity must be greater than zero"
	}
	if s.Price < 0 {
		v["price"] = "price cannot be negative"
	}
	return v
}
