// Package tui is an interactive editor for the configured Bix presets. It
// previews each preset as it would be laid out and saves changes back to the
// configuration file.
package tui

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/wintk/internal/config"
)

// Run starts the playground on the configuration at path. reload, when
// non-nil, is called after a successful save so a running window can pick
// the change up.
func Run(path string, reload func() error) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newModel(path, res.Config, reload), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
