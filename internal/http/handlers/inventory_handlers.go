package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/sabiboss/internal/store"
)

// AdjustQuantityHandler godoc
// @Summary Adjust the stock quantity of an inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param adjustment body QuantityAdjustmentRequest true "Quantity delta"
// @Success 200 {object} Envelope
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {object} Envelope "Not found"
// @Failure 409 {object} Envelope "Quantity cannot be negative"
// @Failure 422 {object} Envelope "Store rejected the update"
// @Router /inventory/{id}/adjust [post]
// @Security BearerAuth
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req QuantityAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	updated, err := ws.Inventory.Adjust(r.Context(), id, "quantity", req.Delta)
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(w, http.StatusNotFound, ws, Envelope{})
		return
	case errors.Is(err, store.ErrInvalidQuantityChange):
		respond(w, http.StatusConflict, ws, Envelope{})
		return
	case err != nil:
		respond(w, http.StatusUnprocessableEntity, ws, Envelope{})
		return
	}

	if updated.LowStock() {
		logger.Warn("low stock", "item_id", updated.ID, "name", updated.Name,
			"quantity", updated.Quantity, "reorder_level", updated.ReorderLevel)
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: updated})
}
