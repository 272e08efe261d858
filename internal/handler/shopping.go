package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantry/internal/state"
)

type ShoppingHandler struct {
	shopping *state.Shopping
	logger   *slog.Logger
}

func NewShoppingHandler(s *state.Shopping, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{shopping: s, logger: logger}
}

// List handles GET /api/shopping-list
func (h *ShoppingHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.shopping.Refresh(r.Context()); err != nil {
		writeError(w, h.logger, err, "failed to load shopping list")
		return
	}
	v, err := h.shopping.View()
	if err != nil {
		writeError(w, h.logger, err, "failed to load shopping list")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// Toggle handles POST /api/shopping-list/{id}/toggle
func (h *ShoppingHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, err := h.shopping.ToggleBought(r.Context(), id)
	if err == state.ErrItemNotFound {
		// The list may not have been fetched by this process yet.
		if err = h.shopping.Refresh(r.Context()); err == nil {
			item, err = h.shopping.ToggleBought(r.Context(), id)
		}
	}
	if err != nil {
		writeError(w, h.logger, err, "failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, item)
}
