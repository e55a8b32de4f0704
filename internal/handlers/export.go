package handlers

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/metrics"
)

// DataHandler serves export, import and wipe.
type DataHandler struct {
	Inv *inventory.Inventory
	Log *zap.Logger
}

func (h *DataHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, export.FormatCSV)
}

func (h *DataHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	h.export(w, export.FormatJSON)
}

func (h *DataHandler) export(w http.ResponseWriter, format string) {
	name, content, mime, err := export.Encode(format, h.Inv.Assets())
	if err != nil {
		h.Log.Error("export", zap.String("format", format), zap.Error(err))
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	metrics.IncExport(format, "api")
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// Import replaces the asset collection with the JSON array in the body.
func (h *DataHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		JSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	assets, err := export.ParseJSON(body)
	if err != nil {
		inventoryError(w, err)
		return
	}
	if err := h.Inv.Import(r.Context(), assets); err != nil {
		h.Log.Error("import", zap.Error(err))
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(assets)})
}

// Wipe clears assets and history. It requires confirm=true.
func (h *DataHandler) Wipe(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		JSONError(w, "confirm=true is required", http.StatusBadRequest)
		return
	}
	if err := h.Inv.Wipe(r.Context()); err != nil {
		h.Log.Error("wipe", zap.Error(err))
		inventoryError(w, err)
		return
	}
	h.Log.Warn("data wiped", zap.String("actor", inventory.ActorFrom(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}
