package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/pantry/internal/freshness"
	"github.com/dukerupert/pantry/internal/model"
	"github.com/dukerupert/pantry/internal/quantity"
	"github.com/dukerupert/pantry/internal/state"
)

type InventoryHandler struct {
	inventory *state.Inventory
	now       func() time.Time
	logger    *slog.Logger
}

func NewInventoryHandler(inv *state.Inventory, now func() time.Time, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inv, now: now, logger: logger}
}

type inventoryRequest struct {
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	ExpiryDate  string  `json:"expiryDate"`
}

func (req inventoryRequest) input() (model.InventoryInput, error) {
	unit, err := quantity.ParseUnit(req.Unit)
	if err != nil {
		return model.InventoryInput{}, err
	}
	in := model.InventoryInput{
		ProductName: strings.TrimSpace(req.ProductName),
		Quantity:    req.Quantity,
		Unit:        unit,
	}
	if req.ExpiryDate != "" {
		t, err := freshness.ParseDate(req.ExpiryDate)
		if err != nil {
			return model.InventoryInput{}, &freshness.InvalidDateError{Field: "expiry", Value: req.ExpiryDate, Err: err}
		}
		in.ExpiryDate = &t
	}
	return in, nil
}

// List handles GET /api/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Refresh(r.Context()); err != nil {
		writeError(w, h.logger, err, "failed to load inventory")
		return
	}
	v, err := h.inventory.View(h.now())
	if err != nil {
		writeError(w, h.logger, err, "failed to load inventory")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Create handles POST /api/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.ProductName) == "" {
		writeMessage(w, http.StatusBadRequest, "productName is required")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, h.logger, err, "invalid item")
		return
	}

	item, err := h.inventory.Add(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err, "failed to add item")
		return
	}
	writeJSON(w, http.StatusCreated, freshness.ItemFreshness{
		InventoryItem: *item,
		Freshness:     freshness.Classify(item.ExpiryDate, h.now()),
	})
}

// Update handles PUT /api/inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req inventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, h.logger, err, "invalid item")
		return
	}

	item, err := h.inventory.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err, "failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, freshness.ItemFreshness{
		InventoryItem: *item,
		Freshness:     freshness.Classify(item.ExpiryDate, h.now()),
	})
}

// Delete handles DELETE /api/inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.inventory.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, err, "failed to delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
