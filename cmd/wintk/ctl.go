package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/wintk/internal/ipc"
	"github.com/1broseidon/wintk/internal/runtimepath"
)

func printCtlUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wintk ctl [--socket PATH] <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  status           Show the running window's state")
	fmt.Fprintln(w, "  preset [NAME]    Switch preset (default: the next one)")
	fmt.Fprintln(w, "  command ID       Send a command id to the window")
	fmt.Fprintln(w, "  reload           Re-read the configuration file")
}

func runCtl(args []string) int {
	fs := flag.NewFlagSet("ctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/wintk.sock)")
	fs.Usage = func() { printCtlUsage(os.Stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		printCtlUsage(os.Stderr)
		return 2
	}

	if *socket == "" {
		var err error
		if *socket, err = runtimepath.SocketPath(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	client := ipc.NewClient(*socket)

	switch rest[0] {
	case "status":
		status, err := client.Status()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Preset:  %s (%d cells)\n", status.Preset, status.Cells)
		fmt.Printf("Window:  %dx%d\n", status.Width, status.Height)
		fmt.Printf("Presets: %s\n", strings.Join(status.Presets, ", "))
		fmt.Printf("Uptime:  %ds\n", status.UptimeSeconds)
		return 0

	case "preset":
		name := ""
		if len(rest) > 1 {
			name = rest[1]
		}
		active, err := client.Preset(name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("preset: %s\n", active)
		return 0

	case "command":
		if len(rest) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: wintk ctl command ID")
			return 2
		}
		id, err := strconv.Atoi(rest[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid command id %q\n", rest[1])
			return 2
		}
		if err := client.Command(id); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "reload":
		if err := client.Reload(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: reloaded")
		return 0

	case "help", "-h", "--help":
		printCtlUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown ctl command: %s\n\n", rest[0])
		printCtlUsage(os.Stderr)
		return 2
	}
}
