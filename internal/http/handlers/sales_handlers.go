package handlers

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/sabiboss/internal/models"
)

// ExportSalesHandler godoc
// @Summary Export sales records
// @Tags sales
// @Produce text/csv, application/json
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "Filter from sale date (RFC3339)"
// @Param until query string false "Filter until sale date (RFC3339)"
// @Success 200 {file} file
// @Failure 400 {string} string "Invalid input"
// @Router /sales/export [get]
// @Security BearerAuth
func ExportSalesHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	var since, until time.Time
	if s := r.URL.Query().Get("since"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid since date format", http.StatusBadRequest)
			return
		}
		since = ts
	}
	if s := r.URL.Query().Get("until"); s != "" {
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid until date format", http.StatusBadRequest)
			return
		}
		until = ts
	}

	sales := []models.Sale{}
	for _, s := range ws.Sales.Items() {
		if !since.IsZero() && s.SaleDate.Before(since) {
			continue
		}
		if !until.IsZero() && s.SaleDate.After(until) {
			continue
		}
		sales = append(sales, s)
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="sales.json"`)
		if err := json.NewEncoder(w).Encode(sales); err != nil {
			logger.Error("failed to write sales export", "error", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write([]string{"id", "product", "quantity", "price", "total", "customer", "sale_date"})
		for _, s := range sales {
			customer := ""
			if s.Customer != nil {
				customer = *s.Customer
			}
			_ = csvWriter.Write([]string{
				s.ID,
				s.Product,
				strconv.Itoa(s.Quantity),
				strconv.FormatFloat(s.Price, 'f', 2, 64),
				strconv.FormatFloat(s.Total(), 'f', 2, 64),
				customer,
				s.SaleDate.Format(time.RFC3339),
			})
		}
		csvWriter.Flush()
	}
}
