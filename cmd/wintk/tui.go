package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/wintk/internal/config"
	"github.com/1broseidon/wintk/internal/ipc"
	"github.com/1broseidon/wintk/internal/runtimepath"
	"github.com/1broseidon/wintk/internal/tui"
)

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wintk/config.yaml)")
	socket := fs.String("socket", "", "Control socket of a running window to reload after saving")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *path == "" {
		var err error
		if *path, err = config.DefaultConfigPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if *socket == "" {
		// No runtime dir just means no running window to reload.
		*socket, _ = runtimepath.SocketPath()
	}

	var reload func() error
	if *socket != "" {
		client := ipc.NewClient(*socket)
		reload = client.Reload
	}
	if err := tui.Run(*path, reload); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
