package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/models"
	"github.com/crucial707/dosasset/internal/query"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type AssetHandler struct {
	Inv *inventory.Inventory
	Log *zap.Logger
}

type createAssetInput struct {
	Tag          string `json:"tag" validate:"required,max=64"`
	Type         string `json:"type" validate:"required,max=64"`
	Model        string `json:"model" validate:"required,max=128"`
	Serial       string `json:"serial" validate:"required,max=128"`
	Owner        string `json:"owner" validate:"max=128"`
	Location     string `json:"location" validate:"max=128"`
	Status       string `json:"status" validate:"omitempty,oneof=active repair retired lost"`
	PurchaseDate string `json:"purchaseDate" validate:"omitempty,datetime=2006-01-02"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// updateAssetInput holds the editable fields; absent fields are left alone.
type updateAssetInput struct {
	Owner    *string `json:"owner" validate:"omitempty,max=128"`
	Location *string `json:"location" validate:"omitempty,max=128"`
	Status   *string `json:"status" validate:"omitempty,oneof=active repair retired lost"`
	Notes    *string `json:"notes" validate:"omitempty,max=2000"`
	Model    *string `json:"model" validate:"omitempty,max=128"`
	Serial   *string `json:"serial" validate:"omitempty,max=128"`
}

func (in updateAssetInput) fields() map[string]string {
	out := map[string]string{}
	for name, v := range map[string]*string{
		"owner": in.Owner, "location": in.Location, "status": in.Status,
		"notes": in.Notes, "model": in.Model, "serial": in.Serial,
	} {
		if v != nil {
			out[name] = *v
		}
	}
	return out
}

type batchInput struct {
	IDs   []string `json:"ids" validate:"required,min=1,dive,required"`
	Owner string   `json:"owner"`
}

// decode parses and validates a JSON body into dst, writing the error response on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		validationError(w, err)
		return false
	}
	return true
}

// ==========================
// Create Asset
// ==========================

func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var input createAssetInput
	if !decode(w, r, &input) {
		return
	}

	asset, err := h.Inv.Add(r.Context(), models.Asset{
		Tag:          input.Tag,
		Type:         input.Type,
		Model:        input.Model,
		Serial:       input.Serial,
		Owner:        input.Owner,
		Location:     input.Location,
		Status:       input.Status,
		PurchaseDate: input.PurchaseDate,
		Notes:        input.Notes,
	})
	if err != nil {
		h.Log.Error("create asset", zap.Error(err))
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// ==========================
// List Assets
// ==========================

// ListAssets filters by q (query string syntax), status and type, then pages
// with limit (default 50, max 500) and offset. X-Total-Count carries the match count.
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 50
	offset := 0
	if l := q.Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 500 {
			limit = val
		}
	}
	if o := q.Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}
	status := q.Get("status")
	if status != "" && !models.ValidStatus(status) {
		JSONValidationError(w, "validation failed", map[string]string{"status": "oneof"}, http.StatusBadRequest)
		return
	}

	assets := h.Inv.Filter(query.Filter{Query: q.Get("q"), Status: status, Type: q.Get("type")})
	w.Header().Set("X-Total-Count", strconv.Itoa(len(assets)))
	if offset > len(assets) {
		offset = len(assets)
	}
	end := offset + limit
	if end > len(assets) {
		end = len(assets)
	}
	writeJSON(w, http.StatusOK, assets[offset:end])
}

// ==========================
// Single asset
// ==========================

func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Inv.Get(chi.URLParam(r, "id"))
	if err != nil {
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	var input updateAssetInput
	if !decode(w, r, &input) {
		return
	}
	asset, err := h.Inv.Update(r.Context(), chi.URLParam(r, "id"), input.fields())
	if err != nil {
		h.Log.Warn("update asset", zap.String("id", chi.URLParam(r, "id")), zap.Error(err))
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) RetireAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.Inv.Retire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.Inv.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		inventoryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Batch
// ==========================

func (h *AssetHandler) BatchRetire(w http.ResponseWriter, r *http.Request) {
	var input batchInput
	if !decode(w, r, &input) {
		return
	}
	n, err := h.Inv.BatchRetire(r.Context(), input.IDs)
	if err != nil {
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *AssetHandler) BatchAssign(w http.ResponseWriter, r *http.Request) {
	var input batchInput
	if !decode(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Owner) == "" {
		JSONValidationError(w, "validation failed", map[string]string{"owner": "required"}, http.StatusBadRequest)
		return
	}
	n, err := h.Inv.BatchAssign(r.Context(), input.IDs, input.Owner)
	if err != nil {
		inventoryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

func (h *AssetHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Inv.Stats())
}
