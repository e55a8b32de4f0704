package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/command"
	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
)

// CommandHandler runs terminal command lines over HTTP.
type CommandHandler struct {
	Inv        *inventory.Inventory
	Downloader export.Downloader
	Log        *zap.Logger
}

type commandInput struct {
	Line    string `json:"line" validate:"required,max=4096"`
	Confirm bool   `json:"confirm"`
}

// Run executes one line. A wipe goes ahead only when confirm is true.
func (h *CommandHandler) Run(w http.ResponseWriter, r *http.Request) {
	var input commandInput
	if !decode(w, r, &input) {
		return
	}
	confirm := func(string) bool { return input.Confirm }
	d := command.New(h.Inv, h.Downloader, confirm, h.Log)

	output := []string{}
	d.Execute(r.Context(), input.Line, func(line string) { output = append(output, line) })
	writeJSON(w, http.StatusOK, map[string][]string{"output": output})
}
