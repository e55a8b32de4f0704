package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	writeJSON(w, status, out)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// inventoryError maps inventory and import errors onto HTTP responses.
// Anything unrecognised is a 500 with a generic message.
func inventoryError(w http.ResponseWriter, err error) {
	var fe *inventory.FieldError
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		JSONError(w, "asset not found", http.StatusNotFound)
	case errors.As(err, &fe):
		JSONValidationError(w, "validation failed", map[string]string{fe.Field: fe.Err.Error()}, http.StatusBadRequest)
	case errors.Is(err, export.ErrInvalidJSON):
		JSONError(w, "invalid JSON", http.StatusBadRequest)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// validationError renders validator failures as a field map keyed by JSON name.
func validationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		JSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
}
