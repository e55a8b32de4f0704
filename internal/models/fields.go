package models

import "encoding/json"

// FieldAccessor reads and writes one string field of an Asset.
type FieldAccessor struct {
	Get func(a *Asset) string
	Set func(a *Asset, v string)
}

// Fields maps the serialized field name to its accessor. Names are case-sensitive.
var Fields = map[string]FieldAccessor{
	"id":           {func(a *Asset) string { return a.ID }, func(a *Asset, v string) { a.ID = v }},
	"tag":          {func(a *Asset) string { return a.Tag }, func(a *Asset, v string) { a.Tag = v }},
	"type":         {func(a *Asset) string { return a.Type }, func(a *Asset, v string) { a.Type = v }},
	"model":        {func(a *Asset) string { return a.Model }, func(a *Asset, v string) { a.Model = v }},
	"serial":       {func(a *Asset) string { return a.Serial }, func(a *Asset, v string) { a.Serial = v }},
	"owner":        {func(a *Asset) string { return a.Owner }, func(a *Asset, v string) { a.Owner = v }},
	"location":     {func(a *Asset) string { return a.Location }, func(a *Asset, v string) { a.Location = v }},
	"status":       {func(a *Asset) string { return a.Status }, func(a *Asset, v string) { a.Status = v }},
	"purchaseDate": {func(a *Asset) string { return a.PurchaseDate }, func(a *Asset, v string) { a.PurchaseDate = v }},
	"notes":        {func(a *Asset) string { return a.Notes }, func(a *Asset, v string) { a.Notes = v }},
}

// EditableFields are the fields an edit may overwrite, in the order they are applied.
var EditableFields = []string{"owner", "location", "status", "notes", "model", "serial"}

// Field returns the value of the named field. Unknown names read as "".
func (a *Asset) Field(name string) string {
	acc, ok := Fields[name]
	if !ok {
		return ""
	}
	return acc.Get(a)
}

// SetField writes the named field and reports whether the name is known.
func (a *Asset) SetField(name, value string) bool {
	acc, ok := Fields[name]
	if !ok {
		return false
	}
	acc.Set(a, value)
	return true
}

// Clone returns a copy that shares no slices with a.
func (a Asset) Clone() Asset {
	if a.Audit != nil {
		audit := make([]json.RawMessage, len(a.Audit))
		copy(audit, a.Audit)
		a.Audit = audit
	}
	return a
}
