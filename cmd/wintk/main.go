package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/wintk/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDemo(os.Args[2:]))
	case "bix":
		os.Exit(runBix(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "ctl":
		os.Exit(runCtl(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wintk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Open the demo window (X11, foreground)")
	fmt.Fprintln(w, "  monitors            List displays and their work areas")
	fmt.Fprintln(w, "  ctl                 Control a running demo window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  bix parse           Check a Bix layout")
	fmt.Fprintln(w, "  bix measure         Print the preferred size of a layout")
	fmt.Fprintln(w, "  bix arrange         Print the rectangle of every widget")
	fmt.Fprintln(w, "  bix preview         Draw an arranged layout in the terminal")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  tui                 Edit and preview presets interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wintk <command> --help' for command-specific options.")
}

// loadConfig loads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	return config.LoadFromPath(path)
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  wintk config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  wintk config print [--path PATH] [--defaults] [--format yaml|toml]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wintk/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		res, err := loadConfig(*path)
		if err != nil {
			var verr *config.ValidationError
			if errors.As(err, &verr) && verr.Source.Kind != config.SourceFile {
				fmt.Fprintf(os.Stderr, "%s (%s)\n", verr.Error(), formatSource(verr.Source))
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			return 1
		}
		if res.File == "" {
			fmt.Println("config: ok (defaults)")
		} else {
			fmt.Printf("config: ok (%s)\n", res.File)
		}
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wintk/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		format := fs.String("format", "yaml", "Output format: yaml or toml")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		outFormat := config.Format(*format)
		if outFormat != config.FormatYAML && outFormat != config.FormatTOML {
			fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		if err := config.Encode(os.Stdout, cfg, outFormat); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
