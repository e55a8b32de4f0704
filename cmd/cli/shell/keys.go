package shell

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the shell's bindings.
type keyMap struct {
	Submit key.Binding
	Back   key.Binding
	Fwd    key.Binding
	Clear  key.Binding
	Help   key.Binding
	Export key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	Back:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous")),
	Fwd:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next")),
	Clear:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	Help:   key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "help")),
	Export: key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "export csv")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back, k.Fwd, k.Clear, k.Help, k.Export, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
