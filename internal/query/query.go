// Package query matches assets against free-text and key=value queries.
package query

import (
	"regexp"
	"strings"

	"github.com/crucial707/dosasset/internal/models"
)

var fieldTerm = regexp.MustCompile(`^(\w+)=(.+)$`)

// Match reports whether asset satisfies every whitespace-separated term of q.
// A term of the form key=value matches when the named field contains value;
// any other term is searched for in the asset's descriptive fields.
// Comparisons are case-insensitive. An empty query matches every asset.
func Match(asset *models.Asset, q string) bool {
	var blob string
	for _, term := range strings.Fields(q) {
		if kv := fieldTerm.FindStringSubmatch(term); kv != nil {
			if !containsFold(asset.Field(kv[1]), kv[2]) {
				return false
			}
			continue
		}
		if blob == "" {
			blob = strings.ToLower(textBlob(asset))
		}
		if !strings.Contains(blob, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

// textBlob joins the fields searched by free-text terms. Missing values are empty.
func textBlob(a *models.Asset) string {
	return strings.Join([]string{
		a.Tag, a.Type, a.Model, a.Serial, a.Owner, a.Location, a.Status,
	}, " ")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Filter combines exact status/type selection with a query string.
// Empty fields do not constrain the result.
type Filter struct {
	Query  string
	Status string
	Type   string
}

// Matches reports whether asset passes every constraint of f.
func (f Filter) Matches(asset *models.Asset) bool {
	if f.Status != "" && asset.Status != f.Status {
		return false
	}
	if f.Type != "" && asset.Type != f.Type {
		return false
	}
	return Match(asset, f.Query)
}

// Apply returns the assets that pass f, preserving order.
func (f Filter) Apply(assets []models.Asset) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	for i := range assets {
		if f.Matches(&assets[i]) {
			out = append(out, assets[i])
		}
	}
	return out
}
