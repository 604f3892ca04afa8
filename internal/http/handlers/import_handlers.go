package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/sabiboss/internal/models"
	"github.com/rogerio-castellano/sabiboss/internal/notify"
	"github.com/rogerio-castellano/sabiboss/internal/store"
)

type csvRow struct {
	Name         string
	Category     string
	Quantity     int
	UnitPrice    float64
	ReorderLevel int
}

var inventoryColumns = []string{"name", "category", "quantity", "unit_price", "reorder_level"}

func parseCSV(file multipart.File) ([]csvRow, error) {
	reader := csv.NewReader(file)
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range inventoryColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{
			Name:         strings.TrimSpace(record[index["name"]]),
			Category:     strings.TrimSpace(record[index["category"]]),
			Quantity:     parseInt(record[index["quantity"]]),
			UnitPrice:    parseFloat(record[index["unit_price"]]),
			ReorderLevel: parseInt(record[index["reorder_level"]]),
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if r.Name == "" {
		return errors.New("missing name")
	}
	if r.UnitPrice < 0 {
		return errors.New("invalid unit_price")
	}
	if r.Quantity < 0 {
		return errors.New("invalid quantity")
	}
	if r.ReorderLevel < 0 {
		return errors.New("invalid reorder_level")
	}
	return nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return -1
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return -1
	}
	return v
}

// ImportInventoryHandler godoc
// @Summary Import inventory items via CSV
// @Tags inventory
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file (name,category,quantity,unit_price,reorder_level)"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} Envelope
// @Failure 400 {string} string "Invalid file"
// @Router /inventory/import [post]
// @Security BearerAuth
func ImportInventoryHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip" // default
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// one summary instead of a toast per row
	ctx := notify.Silence(r.Context())

	byName := map[string]models.InventoryItem{}
	for _, item := range ws.Inventory.Items() {
		byName[strings.ToLower(item.Name)] = item
	}

	result := ImportInventoryResult{Errors: []string{}}
	for i, rec := range records {
		rowNum := i + 2 // header is row 1

		if err := validateRow(rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		if existing, found := byName[strings.ToLower(rec.Name)]; found {
			if mode == "skip" {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: item '%s' already exists", rowNum, rec.Name))
				continue
			}
			patch := store.Patch{
				"category":      rec.Category,
				"quantity":      rec.Quantity,
				"unit_price":    rec.UnitPrice,
				"reorder_level": rec.ReorderLevel,
			}
			if !ws.Inventory.Update(ctx, existing.ID, patch) {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: failed to update '%s'", rowNum, rec.Name))
				continue
			}
			result.ImportedCount++
			continue
		}

		created, ok := ws.Inventory.Insert(ctx, models.InventoryItem{
			Name:         rec.Name,
			Category:     rec.Category,
			Quantity:     rec.Quantity,
			UnitPrice:    rec.UnitPrice,
			ReorderLevel: rec.ReorderLevel,
		})
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: failed to add '%s'", rowNum, rec.Name))
			continue
		}
		byName[strings.ToLower(created.Name)] = created
		result.ImportedCount++
	}

	if result.ImportedCount > 0 {
		ws.Feed.Success(fmt.Sprintf("Imported %d items", result.ImportedCount))
	}
	respond(w, http.StatusOK, ws, Envelope{OK: len(result.Errors) == 0, Data: result})
}
