package models

import "encoding/json"

// Asset statuses.
const (
	StatusActive  = "active"
	StatusRepair  = "repair"
	StatusRetired = "retired"
	StatusLost    = "lost"
)

// Statuses lists every valid asset status in display order.
var Statuses = []string{StatusActive, StatusRepair, StatusRetired, StatusLost}

// Asset is one physical item in the inventory.
type Asset struct {
	ID           string            `json:"id"`
	Tag          string            `json:"tag"`
	Type         string            `json:"type"`
	Model        string            `json:"model"`
	Serial       string            `json:"serial"`
	Owner        string            `json:"owner"`
	Location     string            `json:"location"`
	Status       string            `json:"status"`
	PurchaseDate string            `json:"purchaseDate"`
	Notes        string            `json:"notes"`
	Audit        []json.RawMessage `json:"audit"`
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}
