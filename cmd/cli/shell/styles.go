package shell

import "github.com/charmbracelet/lipgloss"

var (
	screenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	echoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	borderStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true).
			BorderForeground(lipgloss.Color("2")).
			Padding(0, 1)
)
