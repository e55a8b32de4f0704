package output

import (
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/crucial707/dosasset/internal/models"
)

var (
	SuccessColor = color.New(color.FgGreen)
	ErrorColor   = color.New(color.FgRed)
	WarnColor    = color.New(color.FgYellow)
	DimColor     = color.New(color.Faint)
)

var statusColors = map[string]*color.Color{
	models.StatusActive:  color.New(color.FgGreen),
	models.StatusRepair:  color.New(color.FgYellow),
	models.StatusRetired: color.New(color.Faint),
	models.StatusLost:    color.New(color.FgRed),
}

// Status colors a status value for terminal display.
func Status(s string) string {
	if c, ok := statusColors[s]; ok {
		return c.Sprint(s)
	}
	return s
}

// RenderTable prints a pretty table to w.
func RenderTable(w io.Writer, headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}

// AssetTable prints assets one per row.
func AssetTable(w io.Writer, assets []models.Asset) {
	rows := make([][]interface{}, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, []interface{}{a.ID, a.Tag, a.Type, a.Model, a.Serial, a.Owner, a.Location, Status(a.Status)})
	}
	RenderTable(w, []string{"ID", "Tag", "Type", "Model", "Serial", "Owner", "Location", "Status"}, rows)
}
