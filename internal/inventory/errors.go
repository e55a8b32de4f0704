package inventory

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no asset has the requested id or tag.
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidStatus is returned for a status outside models.Statuses.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrMissingField is returned when a required asset field is empty.
	ErrMissingField = errors.New("missing field")
	// ErrUnknownField is returned when an update names a field that cannot be edited.
	ErrUnknownField = errors.New("unknown field")
)

// FieldError reports which field failed validation.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%v %s=%q", e.Err, e.Field, e.Value)
	}
	return fmt.Sprintf("%v %s", e.Err, e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }
