package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	cellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
)

func renderStatusBar(path string, dirty bool, status string, width int) string {
	parts := []string{"config: " + path}
	if dirty {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("modified"))
	}
	if status != "" {
		parts = append(parts, status)
	}
	return statusBarStyle.Width(width).Render(strings.Join(parts, "  "))
}

func renderHelpBar(f focus, width int) string {
	var help string
	switch f {
	case focusEdit:
		help = "enter: apply  esc: cancel  ctrl-c: quit"
	case focusSave:
		help = "←/→: choose  enter: confirm  esc: cancel"
	default:
		help = "j/k: select  e: edit bix  +/-: cells  d: window preset  r: reload  ctrl-s: save  q: quit"
	}
	return helpStyle.Width(width).Render(help)
}
