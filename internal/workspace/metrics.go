package workspace

import "github.com/rogerio-castellano/sabiboss/internal/models"

type Metrics struct {
	TotalSales     float64                `json:"total_sales"`
	TotalExpenses  float64                `json:"total_expenses"`
	Profit         float64                `json:"profit"`
	SalesCount     int                    `json:"sales_count"`
	CustomerCount  int                    `json:"customer_count"`
	InventoryCount int                    `json:"inventory_count"`
	InventoryValue float64                `json:"inventory_value"`
	LowStockCount  int                    `json:"low_stock_count"`
	LowStockItems  []models.InventoryItem `json:"low_stock_items"`
}

func ComputeMetrics(sales []models.Sale, expenses []models.Expense, customers []models.Customer, inventory []models.InventoryItem) Metrics {
	m := Metrics{
		SalesCount:     len(sales),
		CustomerCount:  len(customers),
		InventoryCount: len(inventory),
		LowStockItems:  []models.InventoryItem{},
	}

	for _, s := range sales {
		m.TotalSales += s.Total()
	}
	for _, e := range expenses {
		m.TotalExpenses += e.Amount
	}
	m.Profit = m.TotalSales - m.TotalExpenses

	for _, item := range inventory {
		m.InventoryValue += float64(item.Quantity) * item.UnitPrice
		if item.LowStock() {
			m.LowStockItems = append(m.LowStockItems, item)
		}
	}
	m.LowStockCount = len(m.LowStockItems)
	return m
}
