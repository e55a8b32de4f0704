// Package export encodes the asset collection as CSV or JSON, decodes JSON
// imports, and writes export files.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/dosasset/internal/models"
)

// Formats and their download names.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"

	CSVFileName  = "assets.csv"
	JSONFileName = "assets.json"

	CSVMimeType  = "text/csv"
	JSONMimeType = "application/json"
)

// ErrInvalidJSON is returned when import text is not a JSON array of assets.
var ErrInvalidJSON = errors.New("invalid JSON")

// CSVHeader is the column order of CSV exports.
var CSVHeader = []string{"id", "tag", "type", "model", "serial", "owner", "location", "status", "purchaseDate", "notes"}

// CSV renders assets with a header row. Every field is double-quoted with
// embedded quotes doubled; rows are separated by "\n".
func CSV(assets []models.Asset) []byte {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	for i := range assets {
		b.WriteByte('\n')
		for j, col := range CSVHeader {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(assets[i].Field(col), `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String())
}

// JSON renders assets as a two-space indented array.
func JSON(assets []models.Asset) ([]byte, error) {
	if assets == nil {
		assets = []models.Asset{}
	}
	out, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode assets: %w", err)
	}
	return out, nil
}

// ParseJSON decodes import text. Anything other than an array of asset
// objects yields ErrInvalidJSON.
func ParseJSON(text []byte) ([]models.Asset, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidJSON
	}
	var assets []models.Asset
	if err := json.Unmarshal(trimmed, &assets); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

// Encode renders assets in format and returns the file name and MIME type to use.
func Encode(format string, assets []models.Asset) (name string, content []byte, mimeType string, err error) {
	switch format {
	case FormatCSV:
		return CSVFileName, CSV(assets), CSVMimeType, nil
	case FormatJSON:
		content, err = JSON(assets)
		return JSONFileName, content, JSONMimeType, err
	default:
		return "", nil, "", fmt.Errorf("unknown export format %q", format)
	}
}
