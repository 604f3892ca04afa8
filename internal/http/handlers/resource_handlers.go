package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/sabiboss/internal/models"
	"github.com/rogerio-castellano/sabiboss/internal/resource"
	"github.com/rogerio-castellano/sabiboss/internal/store"
	"github.com/rogerio-castellano/sabiboss/internal/workspace"
)

// Resource serves the list, create, update, delete and refetch routes
// of one record kind.
type Resource[T any] struct {
	pick     func(ws *workspace.Workspace) *resource.Synchronizer[T]
	validate func(rec T) Violations
}

var (
	Customers = Resource[models.Customer]{
		pick:     func(ws *workspace.Workspace) *resource.Synchronizer[models.Customer] { return ws.Customers },
		validate: validateCustomer,
	}
	Expenses = Resource[models.Expense]{
		pick:     func(ws *workspace.Workspace) *resource.Synchronizer[models.Expense] { return ws.Expenses },
		validate: validateExpense,
	}
	Inventory = Resource[models.InventoryItem]{
		pick:     func(ws *workspace.Workspace) *resource.Synchronizer[models.InventoryItem] { return ws.Inventory },
		validate: validateInventoryItem,
	}
	Sales = Resource[models.Sale]{
		pick:     func(ws *workspace.Workspace) *resource.Synchronizer[models.Sale] { return ws.Sales },
		validate: validateSale,
	}
)

// List godoc
// @Summary List cached records of a kind, newest first
// @Tags resources
// @Produce json
// @Param kind path string true "customers, expenses, inventory or sales"
// @Success 200 {object} Envelope
// @Failure 401 {string} string "Unauthorized"
// @Router /{kind} [get]
// @Security BearerAuth
func (h Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	items := h.pick(ws).Items()
	if items == nil {
		items = []T{}
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: items})
}

// Create godoc
// @Summary Create a record for the signed-in owner
// @Tags resources
// @Accept json
// @Produce json
// @Param kind path string true "customers, expenses, inventory or sales"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope "Invalid input"
// @Failure 422 {object} Envelope "Store rejected the record"
// @Router /{kind} [post]
// @Security BearerAuth
func (h Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}

	var rec T
	if err := readJSON(w, r, &rec); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if v := h.validate(rec); len(v) > 0 {
		respond(w, http.StatusBadRequest, ws, Envelope{Errors: v})
		return
	}

	created, ok := h.pick(ws).Insert(r.Context(), rec)
	if !ok {
		respond(w, http.StatusUnprocessableEntity, ws, Envelope{})
		return
	}
	respond(w, http.StatusCreated, ws, Envelope{OK: true, Data: created})
}

// Update godoc
// @Summary Patch a record; only the given columns change
// @Tags resources
// @Accept json
// @Produce json
// @Param kind path string true "customers or inventory"
// @Param id path string true "Record ID"
// @Success 200 {object} Envelope
// @Failure 400 {string} string "Invalid input"
// @Failure 422 {object} Envelope "Store rejected the patch"
// @Router /{kind}/{id} [patch]
// @Security BearerAuth
func (h Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var patch store.Patch
	if err := readJSON(w, r, &patch); err != nil || len(patch) == 0 {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	updated, ok := h.pick(ws).Patch(r.Context(), id, patch)
	if !ok {
		respond(w, http.StatusUnprocessableEntity, ws, Envelope{})
		return
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: updated})
}

// Delete godoc
// @Summary Delete a record
// @Tags resources
// @Produce json
// @Param kind path string true "customers, expenses, inventory or sales"
// @Param id path string true "Record ID"
// @Success 200 {object} Envelope
// @Failure 422 {object} Envelope "Store rejected the delete"
// @Router /{kind}/{id} [delete]
// @Security BearerAuth
func (h Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	if !h.pick(ws).Delete(r.Context(), chi.URLParam(r, "id")) {
		respond(w, http.StatusUnprocessableEntity, ws, Envelope{})
		return
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true})
}

// Refetch godoc
// @Summary Re-run the list query and replace the cache
// @Tags resources
// @Produce json
// @Param kind path string true "customers, expenses, inventory or sales"
// @Success 200 {object} Envelope
// @Failure 502 {object} Envelope "Store unavailable"
// @Router /{kind}/refetch [post]
// @Security BearerAuth
func (h Resource[T]) Refetch(w http.ResponseWriter, r *http.Request) {
	ws, ok := currentWorkspace(w, r)
	if !ok {
		return
	}
	syncer := h.pick(ws)
	if err := syncer.Refetch(r.Context()); err != nil {
		respond(w, http.StatusBadGateway, ws, Envelope{})
		return
	}
	items := syncer.Items()
	if items == nil {
		items = []T{}
	}
	respond(w, http.StatusOK, ws, Envelope{OK: true, Data: items})
}
