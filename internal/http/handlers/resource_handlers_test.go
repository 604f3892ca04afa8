package handlers_test

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/rogerio-castellano/sabiboss/internal/http/handlers"
	"github.com/rogerio-castellano/sabiboss/internal/models"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

func TestCustomerCRUD(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")

	w := do(r, http.MethodPost, "/customers", token, map[string]any{"name": "Chidi", "phone": "08022223333"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	env := decode(t, w)
	var created models.Customer
	decodeData(t, env, &created)
	if created.ID == "" || created.Name != "Chidi" || created.UserID == "" {
		t.Fatalf("unexpected created customer %+v", created)
	}
	if !slices.Equal(env.messages(), []string{"Customer added successfully"}) {
		t.Errorf("unexpected notifications %v", env.messages())
	}

	w = do(r, http.MethodPatch, "/customers/"+created.ID, token, map[string]any{"name": "New Name", "total_purchases": 2500})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.Customer
	decodeData(t, decode(t, w), &updated)
	if updated.Name != "New Name" || updated.TotalPurchases != 2500 || updated.Phone != "08022223333" {
		t.Errorf("unexpected updated customer %+v", updated)
	}

	w = do(r, http.MethodGet, "/customers", token, nil)
	var list []models.Customer
	decodeData(t, decode(t, w), &list)
	if len(list) != 1 || list[0].Name != "New Name" {
		t.Errorf("unexpected list %+v", list)
	}

	w = do(r, http.MethodDelete, "/customers/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if msgs := decode(t, w).messages(); !slices.Contains(msgs, "Customer deleted successfully") {
		t.Errorf("unexpected notifications %v", msgs)
	}

	w = do(r, http.MethodDelete, "/customers/"+created.ID, token, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for missing record, got %d", w.Code)
	}
	if msgs := decode(t, w).messages(); !slices.Equal(msgs, []string{"record not found"}) {
		t.Errorf("unexpected notifications %v", msgs)
	}
}

func TestCreateHandlers_Invalid(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")

	tests := []struct {
		name           string
		path           string
		payload        any
		expectedErrors []string
	}{
		{"Customer without name and phone", "/customers", map[string]any{}, []string{"name", "phone"}},
		{"Expense without amount", "/expenses", map[string]any{"category": "rent"}, []string{"amount"}},
		{"Inventory with negative quantity", "/inventory", map[string]any{"name": "rice", "quantity": -1}, []string{"quantity"}},
		{"Sale without product and quantity", "/sales", map[string]any{"price": 10}, []string{"product", "quantity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, tt.path, token, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			env := decode(t, w)
			for _, field := range tt.expectedErrors {
				if _, ok := env.Errors[field]; !ok {
					t.Errorf("expected error for field %q, got %v", field, env.Errors)
				}
			}
		})
	}
}

func TestCreateHandler_MalformedJSON(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")

	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{category: "rent" amount: 100 "}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}
}

func TestImmutableKindsHaveNoPatchRoute(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")

	for _, path := range []string{"/expenses/some-id", "/sales/some-id"} {
		w := do(r, http.MethodPatch, path, token, map[string]any{"amount": 1})
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("PATCH %s: expected 405, got %d", path, w.Code)
		}
	}
}

func TestRecordsAreScopedToOwner(t *testing.T) {
	r := newServer(t, nil, nil)
	ada := signUp(t, r, "ada@example.com")
	bola := signUp(t, r, "bola@example.com")

	w := do(r, http.MethodPost, "/expenses", ada, map[string]any{"category": "rent", "amount": 5000, "description": "shop rent"})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var expense models.Expense
	decodeData(t, decode(t, w), &expense)
	if expense.Amount != 5000 {
		t.Errorf("expected amount 5000, got %v", expense.Amount)
	}

	w = do(r, http.MethodPost, "/expenses/refetch", bola, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []models.Expense
	decodeData(t, decode(t, w), &list)
	if len(list) != 0 {
		t.Errorf("expected bola to see no expenses, got %+v", list)
	}

	if w := do(r, http.MethodDelete, "/expenses/"+expense.ID, bola, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 deleting another owner's record, got %d", w.Code)
	}
}

func createItem(t *testing.T, r http.Handler, token string, item map[string]any) models.InventoryItem {
	t.Helper()
	w := do(r, http.MethodPost, "/inventory", token, item)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created models.InventoryItem
	decodeData(t, decode(t, w), &created)
	return created
}

func TestAdjustQuantityHandler(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")
	item := createItem(t, r, token, map[string]any{"name": "rice", "category": "grains", "quantity": 10, "unit_price": 1500, "reorder_level": 3})

	tests := []struct {
		name        string
		id          string
		delta       int
		expectCode  int
		expectedQty int
	}{
		{"Increase", item.ID, 5, http.StatusOK, 15},
		{"Decrease to low stock", item.ID, -13, http.StatusOK, 2},
		{"Below zero", item.ID, -3, http.StatusConflict, 0},
		{"Unknown item", "missing", 1, http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, fmt.Sprintf("/inventory/%s/adjust", tt.id), token, handlers.QuantityAdjustmentRequest{Delta: tt.delta})
			if w.Code != tt.expectCode {
				t.Fatalf("expected %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
			if tt.expectCode != http.StatusOK {
				return
			}
			var got models.InventoryItem
			decodeData(t, decode(t, w), &got)
			if got.Quantity != tt.expectedQty {
				t.Errorf("expected quantity %d, got %d", tt.expectedQty, got.Quantity)
			}
		})
	}
}

func TestAdjustQuantityHandler_TwoSessionsKeepEveryAdjustment(t *testing.T) {
	r := newServer(t, nil, nil)
	first := signUp(t, r, "ada@example.com")
	second := logIn(t, r, "ada@example.com")
	item := createItem(t, r, first, map[string]any{"name": "rice", "quantity": 0, "reorder_level": 0})

	path := fmt.Sprintf("/inventory/%s/adjust", item.ID)
	for i := 0; i < 100; i++ {
		for _, token := range []string{first, second} {
			if w := do(r, http.MethodPost, path, token, handlers.QuantityAdjustmentRequest{Delta: 1}); w.Code != http.StatusOK {
				t.Fatalf("adjust %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
			}
		}
	}

	w := do(r, http.MethodPost, "/inventory/refetch", second, nil)
	var items []models.InventoryItem
	decodeData(t, decode(t, w), &items)
	if len(items) != 1 || items[0].Quantity != 200 {
		t.Fatalf("expected quantity 200, got %+v", items)
	}

	w = do(r, http.MethodPost, path, first, handlers.QuantityAdjustmentRequest{Delta: -201})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if msgs := decode(t, w).messages(); !slices.Equal(msgs, []string{"quantity cannot go below zero"}) {
		t.Errorf("unexpected notifications %v", msgs)
	}
}

func TestImportInventoryHandler(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")
	createItem(t, r, token, map[string]any{"name": "Rice", "category": "grains", "quantity": 1, "unit_price": 100, "reorder_level": 1})

	content := "name,category,quantity,unit_price,reorder_level\n" +
		"Beans,grains,20,900,5\n" +
		"rice,grains,50,1200,10\n" +
		",grains,1,1,1\n" +
		"Oil,liquids,abc,2000,2\n"

	post := func(mode string) handlers.ImportInventoryResult {
		body, contentType := multipartCSV(content, "items.csv")
		req := httptest.NewRequest(http.MethodPost, "/inventory/import?mode="+mode, body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var res handlers.ImportInventoryResult
		decodeData(t, decode(t, w), &res)
		return res
	}

	res := post("skip")
	if res.ImportedCount != 1 {
		t.Errorf("skip mode: expected 1 imported, got %d (%v)", res.ImportedCount, res.Errors)
	}
	if len(res.Errors) != 3 {
		t.Errorf("skip mode: expected 3 errors, got %v", res.Errors)
	}

	res = post("update")
	if res.ImportedCount != 2 {
		t.Errorf("update mode: expected 2 imported, got %d (%v)", res.ImportedCount, res.Errors)
	}

	w := do(r, http.MethodGet, "/inventory", token, nil)
	var items []models.InventoryItem
	decodeData(t, decode(t, w), &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %+v", items)
	}
	for _, it := range items {
		if strings.EqualFold(it.Name, "rice") && it.Quantity != 50 {
			t.Errorf("expected rice quantity updated to 50, got %d", it.Quantity)
		}
	}
}

func TestImportInventoryHandler_MissingColumn(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")

	body, contentType := multipartCSV("name,quantity\nrice,1\n", "items.csv")
	req := httptest.NewRequest(http.MethodPost, "/inventory/import", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportSalesHandler(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")
	for _, s := range []map[string]any{
		{"product": "rice", "quantity": 2, "price": 1500, "customer": "Chidi"},
		{"product": "beans", "quantity": 1, "price": 900},
	} {
		if w := do(r, http.MethodPost, "/sales", token, s); w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := do(r, http.MethodGet, "/sales/export?format=csv", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	rows, err := csv.NewReader(w.Body).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 3 || rows[0][4] != "total" {
		t.Fatalf("unexpected csv %v", rows)
	}
	totals := []string{rows[1][4], rows[2][4]}
	if !slices.Contains(totals, "3000.00") || !slices.Contains(totals, "900.00") {
		t.Errorf("unexpected totals %v", totals)
	}

	w = do(r, http.MethodGet, "/sales/export?format=json", token, nil)
	var sales []models.Sale
	if err := json.NewDecoder(w.Body).Decode(&sales); err != nil {
		t.Fatalf("invalid json export: %v", err)
	}
	if len(sales) != 2 {
		t.Errorf("expected 2 sales, got %d", len(sales))
	}

	if w := do(r, http.MethodGet, "/sales/export?format=xml", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad format, got %d", w.Code)
	}
	if w := do(r, http.MethodGet, "/sales/export?format=csv&since=yesterday", token, nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad since, got %d", w.Code)
	}
}

func TestDashboardAndNotifications(t *testing.T) {
	r := newServer(t, nil, nil)
	token := signUp(t, r, "ada@example.com")

	do(r, http.MethodPost, "/sales", token, map[string]any{"product": "rice", "quantity": 2, "price": 1000})
	do(r, http.MethodPost, "/expenses", token, map[string]any{"category": "rent", "amount": 500})
	createItem(t, r, token, map[string]any{"name": "rice", "quantity": 1, "unit_price": 100, "reorder_level": 5})

	w := do(r, http.MethodGet, "/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var m workspace.Metrics
	decodeData(t, decode(t, w), &m)
	if m.TotalSales != 2000 || m.TotalExpenses != 500 || m.Profit != 1500 {
		t.Errorf("unexpected metrics %+v", m)
	}
	if m.LowStockCount != 1 {
		t.Errorf("expected 1 low stock item, got %d", m.LowStockCount)
	}

	w = do(r, http.MethodGet, "/notifications", token, nil)
	if env := decode(t, w); len(env.Notifications) != 0 {
		t.Errorf("expected notifications drained by earlier responses, got %v", env.messages())
	}
}
