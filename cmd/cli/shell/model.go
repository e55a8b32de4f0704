package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/crucial707/dosasset/internal/command"
	"github.com/crucial707/dosasset/internal/export"
	"github.com/crucial707/dosasset/internal/inventory"
	"github.com/crucial707/dosasset/internal/metrics"
)

const (
	banner      = "DOS ASSET MANAGER v1.0\nType \"help\" for commands.\n"
	prompt      = `C:\IT\ASSETS> `
	importVerb  = ":import"
	scrollbackN = 1000
)

// importReadMsg carries the result of an asynchronous import file read.
type importReadMsg struct{ res export.ReadResult }

// model is the interactive terminal. It is used through a pointer so the
// dispatcher's confirmer can consult the pending-confirmation state.
type model struct {
	ctx  context.Context
	inv  *inventory.Inventory
	disp *command.Dispatcher
	dl   export.Downloader
	log  *zap.Logger

	input textinput.Model
	help  help.Model
	lines []string

	// pending is a line waiting for a yes/no answer; approved lets its
	// re-run through the confirmer.
	pending  string
	question string
	approved bool
	busy     bool

	width, height int
}

func newModel(ctx context.Context, inv *inventory.Inventory, dl export.Downloader, log *zap.Logger) *model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.CharLimit = 512
	ti.Focus()

	m := &model{ctx: ctx, inv: inv, dl: dl, log: log, input: ti, help: help.New()}
	m.disp = command.New(inv, dl, m.confirm, log)
	m.print(banner)
	return m
}

// confirm approves only a line the user has already answered yes to.
// Otherwise it records the question and declines; the line is re-run
// once the answer arrives.
func (m *model) confirm(question string) bool {
	if m.approved {
		m.approved = false
		return true
	}
	m.question = question
	return false
}

func (m *model) print(text string) {
	m.lines = append(m.lines, strings.Split(text, "\n")...)
	if over := len(m.lines) - scrollbackN; over > 0 {
		m.lines = m.lines[over:]
	}
}

func (m *model) Init() tea.Cmd { return textinput.Blink }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 4
		return m, nil

	case importReadMsg:
		m.busy = false
		m.finishImport(msg.res)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m, m.submit()
		case key.Matches(msg, keys.Back):
			m.input.SetValue(m.disp.Recall().Back())
			m.input.CursorEnd()
			return m, nil
		case key.Matches(msg, keys.Fwd):
			m.input.SetValue(m.disp.Recall().Forward())
			m.input.CursorEnd()
			return m, nil
		case key.Matches(msg, keys.Clear):
			m.input.SetValue("")
			return m, nil
		case key.Matches(msg, keys.Help):
			m.print(`Help: use "help"`)
			return m, nil
		case key.Matches(msg, keys.Export):
			if err := command.Download(m.dl, export.FormatCSV, m.inv.Assets()); err != nil {
				m.log.Error("export failed", zap.Error(err))
			} else {
				metrics.IncExport(export.FormatCSV, "shell")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) submit() tea.Cmd {
	line := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if m.pending != "" {
		pending := m.pending
		m.pending, m.question = "", ""
		m.print(confirmStyle.Render(line))
		if answer := strings.ToLower(line); answer == "y" || answer == "yes" {
			m.approved = true
			m.disp.Run(m.ctx, pending, m.print)
			m.approved = false
		}
		return nil
	}

	if line == "" {
		return nil
	}
	m.print(echoStyle.Render(prompt + line))

	if path, ok := strings.CutPrefix(line, importVerb); ok {
		path = strings.TrimSpace(path)
		if path == "" {
			m.print("Usage: :import FILE.json")
			return nil
		}
		m.busy = true
		return readFileCmd(m.ctx, path)
	}

	m.disp.Execute(m.ctx, line, m.print)
	if m.question != "" {
		m.pending = line
	}
	return nil
}

func readFileCmd(ctx context.Context, path string) tea.Cmd {
	return func() tea.Msg {
		return importReadMsg{res: export.ReadFile(ctx, path)}
	}
}

func (m *model) finishImport(res export.ReadResult) {
	if res.Err != nil {
		m.print(errorStyle.Render(fmt.Sprintf("Cannot read %s: %v", res.Path, res.Err)))
		return
	}
	assets, err := export.ParseJSON(res.Text)
	if err != nil {
		m.print(errorStyle.Render("Invalid JSON"))
		return
	}
	if err := m.inv.Import(m.ctx, assets); err != nil {
		m.print(errorStyle.Render("Save failed: " + err.Error()))
		return
	}
	m.print("Import complete")
}

func (m *model) View() string {
	visible := m.lines
	if m.height > 0 {
		// border, input, status and help lines
		if room := m.height - 6; room > 0 && len(visible) > room {
			visible = visible[len(visible)-room:]
		}
	}
	body := screenStyle.Render(strings.Join(visible, "\n"))

	var bottom string
	switch {
	case m.pending != "":
		bottom = confirmStyle.Render(m.question+" [y/N] ") + m.input.View()
	case m.busy:
		bottom = statusStyle.Render("Reading import file...")
	default:
		bottom = m.input.View()
	}

	box := borderStyle
	if m.width > 2 {
		box = box.Width(m.width - 2)
	}
	return box.Render(body+"\n"+bottom) + "\n" + m.help.View(keys)
}
