package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/dosasset/internal/inventory"
)

// HistoryHandler serves the activity log.
type HistoryHandler struct {
	Inv *inventory.Inventory
}

// ListHistory returns the most recent entries, newest first. Query: limit
// (default inventory.RecentLimit, max 1000; 0 returns everything).
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := inventory.RecentLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val >= 0 && val <= 1000 {
			limit = val
		}
	}
	writeJSON(w, http.StatusOK, h.Inv.Recent(limit))
}
