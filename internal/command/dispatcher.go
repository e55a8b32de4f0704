// Package command interprets the terminal's text commands.
package command

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/metrics"
	"github.com/crucial707/dosasset/internal/models"
	"github.com/crucial707/dosasset/internal/query"
)

// Sink receives output lines.
type Sink func(line string)

// Confirmer asks the user to approve a destructive operation.
type Confirmer func(message string) bool

// WipePrompt is the question put to the Confirmer before a wipe.
const WipePrompt = "Wipe all demo data?"

// HelpText is printed by the help command.
var HelpText = []string{
	"Commands:",
	"  help                       Show help",
	"  list [filters]             List assets (e.g., list status=active owner=alice)",
	"  add key=value ...          Add asset (tag, type, model, serial, owner, location, status, purchaseDate)",
	"  edit tag=PC-100 key=value  Edit by tag",
	"  retire tag=PC-100          Retire by tag",
	"  search key=value ...       Search assets",
	"  export csv|json            Export data",
	"  wipe                       Wipe demo data",
}

var addRequired = []string{"tag", "type", "model", "serial", "status"}

type call struct {
	ctx  context.Context
	args Args
	rest string
	out  Sink
}

// Dispatcher routes command lines to inventory operations. It keeps the
// submitted lines for recall; everything else lives in the Inventory.
type Dispatcher struct {
	inv        *inventory.Inventory
	downloader export.Downloader
	confirm    Confirmer
	log        *zap.Logger
	recall     Recall
	commands   map[string]func(*call)
}

// New returns a Dispatcher. A nil confirm declines every prompt; a nil log discards output.
func New(inv *inventory.Inventory, downloader export.Downloader, confirm Confirmer, log *zap.Logger) *Dispatcher {
	if confirm == nil {
		confirm = func(string) bool { return false }
	}
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{inv: inv, downloader: downloader, confirm: confirm, log: log}
	d.commands = map[string]func(*call){
		"help":   d.help,
		"list":   d.list,
		"search": d.list,
		"add":    d.add,
		"edit":   d.edit,
		"retire": d.retire,
		"export": d.export,
		"wipe":   d.wipe,
	}
	return d
}

// Execute records line for recall and runs it. Blank lines are ignored.
func (d *Dispatcher) Execute(ctx context.Context, line string, out Sink) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	d.recall.Push(line)
	d.Run(ctx, line, out)
}

// Run executes line without recording it.
func (d *Dispatcher) Run(ctx context.Context, line string, out Sink) {
	name, rest := splitLine(line)
	if name == "" {
		return
	}
	metrics.IncCommand(name)

	fn, ok := d.commands[name]
	if !ok {
		out("Unknown command: " + name)
		return
	}
	d.log.Debug("command", zap.String("name", name), zap.String("actor", inventory.ActorFrom(ctx)))
	fn(&call{ctx: ctx, args: ParseArgs(rest), rest: rest, out: out})
}

// Recall gives access to the submitted-line history.
func (d *Dispatcher) Recall() *Recall { return &d.recall }

// Names lists the available commands.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.commands))
	for n := range d.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d *Dispatcher) help(c *call) {
	c.out(strings.Join(HelpText, "\n"))
}

func (d *Dispatcher) list(c *call) {
	assets := d.inv.Filter(query.Filter{Query: c.args.Query()})
	if len(assets) == 0 {
		c.out("No assets found.")
		return
	}
	for _, a := range assets {
		c.out(FormatAsset(a))
	}
}

// FormatAsset renders the one-line summary used by list.
func FormatAsset(a models.Asset) string {
	return fmt.Sprintf("%s %s %s %s owner=%s status=%s", a.Tag, a.Type, a.Model, a.Serial, a.Owner, a.Status)
}

func (d *Dispatcher) add(c *call) {
	for _, key := range addRequired {
		if c.args[key] == "" {
			c.out("Missing " + key)
			return
		}
	}
	a, err := d.inv.Add(c.ctx, models.Asset{
		Tag:          c.args["tag"],
		Type:         c.args["type"],
		Model:        c.args["model"],
		Serial:       c.args["serial"],
		Owner:        c.args["owner"],
		Location:     c.args["location"],
		Status:       c.args["status"],
		PurchaseDate: c.args["purchaseDate"],
		Notes:        c.args["notes"],
	})
	if err != nil {
		d.fail(c, err)
		return
	}
	c.out("Added " + a.Tag)
}

func (d *Dispatcher) edit(c *call) {
	tag := c.args["tag"]
	if tag == "" {
		c.out("Specify tag=...")
		return
	}
	fields := map[string]string{}
	for _, k := range models.EditableFields {
		if v := c.args[k]; v != "" {
			fields[k] = v
		}
	}
	a, err := d.inv.EditByTag(c.ctx, tag, fields)
	if err != nil {
		d.fail(c, err)
		return
	}
	c.out("Edited " + a.Tag)
}

func (d *Dispatcher) retire(c *call) {
	tag := c.args["tag"]
	if tag == "" {
		c.out("Specify tag=...")
		return
	}
	a, err := d.inv.RetireByTag(c.ctx, tag)
	if err != nil {
		d.fail(c, err)
		return
	}
	c.out("Retired " + a.Tag)
}

func (d *Dispatcher) export(c *call) {
	format := export.FormatJSON
	if f := strings.Fields(c.rest); len(f) > 0 && f[0] == export.FormatCSV {
		format = export.FormatCSV
	}
	// Fire and forget: a failed download is logged, never reported.
	if err := Download(d.downloader, format, d.inv.Assets()); err != nil {
		d.log.Error("export failed", zap.String("format", format), zap.Error(err))
	} else {
		metrics.IncExport(format, "command")
	}
	c.out("Export complete.")
}

// Download encodes assets in format and hands the file to downloader.
func Download(downloader export.Downloader, format string, assets []models.Asset) error {
	if downloader == nil {
		return errors.New("no downloader configured")
	}
	name, content, mime, err := export.Encode(format, assets)
	if err != nil {
		return err
	}
	return downloader.Download(name, content, mime)
}

func (d *Dispatcher) wipe(c *call) {
	if !d.confirm(WipePrompt) {
		return
	}
	if err := d.inv.Wipe(c.ctx); err != nil {
		d.fail(c, err)
		return
	}
	c.out("Data wiped.")
}

// fail reports err as a single line.
func (d *Dispatcher) fail(c *call, err error) {
	var fe *inventory.FieldError
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		c.out("Not found.")
	case errors.As(err, &fe) && errors.Is(err, inventory.ErrInvalidStatus):
		c.out("Invalid status " + fe.Value)
	case errors.As(err, &fe) && errors.Is(err, inventory.ErrMissingField):
		c.out("Missing " + fe.Field)
	default:
		d.log.Error("command failed", zap.Error(err))
		c.out("Save failed: " + err.Error())
	}
}
