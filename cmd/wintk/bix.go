package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
	"github.com/1broseidon/wintk/internal/tui"
)

func printBixUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wintk bix parse <bix>")
	fmt.Fprintln(w, "  wintk bix measure  [--preset NAME | --bix BIX] [--size WxH ...] [--spacing N] [--border N]")
	fmt.Fprintln(w, "  wintk bix arrange  [--preset NAME | --bix BIX] [--size WxH ...] [--rect X,Y,W,H]")
	fmt.Fprintln(w, "  wintk bix preview  [--preset NAME | --bix BIX] [--size WxH ...] [--rect X,Y,W,H]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without --size every placeholder is zero-sized.")
}

func runBix(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printBixUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "parse":
		return runBixParse(args[1:])
	case "measure", "arrange", "preview":
		return runBixLayout(args[0], args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown bix command: %s\n\n", args[0])
		printBixUsage(os.Stderr)
		return 2
	}
}

func runBixParse(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: wintk bix parse <bix>")
		return 2
	}
	src := args[0]
	if _, _, err := (layout.Preset{Grammar: src, Sizes: make([]geom.Size, layout.Placeholders(src))}).Build(layout.ParseOptions{}); err != nil {
		var perr *layout.ParseError
		if errors.As(err, &perr) {
			fmt.Fprintln(os.Stderr, src)
			fmt.Fprintf(os.Stderr, "%s^\n", strings.Repeat(" ", perr.Index))
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("bix: ok (%d placeholders)\n", layout.Placeholders(src))
	return 0
}

func runBixLayout(cmd string, args []string) int {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wintk/config.yaml)")
	presetName := fs.String("preset", "", "Configured preset name")
	src := fs.String("bix", "", "Bix layout grammar")
	spacing := fs.Int("spacing", -1, "Gap between cells (default: layout.spacing)")
	border := fs.Int("border", -1, "Margin around the root (default: layout.border)")
	rectFlag := fs.String("rect", "", "Target rectangle X,Y,W,H (default: measured size)")
	var sizes []geom.Size
	fs.Func("size", "Preferred size WxH of the next placeholder (repeatable)", func(v string) error {
		s, err := parseSize(v)
		if err != nil {
			return err
		}
		sizes = append(sizes, s)
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	opts := res.Config.ParseOptions()
	if *spacing >= 0 {
		opts.Spacing = *spacing
	}
	if *border >= 0 {
		opts.Border = *border
	}

	var p layout.Preset
	switch {
	case *presetName != "" && *src != "":
		fmt.Fprintln(os.Stderr, "--preset and --bix are mutually exclusive")
		return 2
	case *presetName != "":
		if p, err = res.Config.Preset(*presetName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(sizes) > 0 {
			p.Sizes = sizes
		}
	case *src != "":
		p = layout.Preset{Grammar: *src, Sizes: sizes}
		if len(sizes) == 0 {
			p.Sizes = make([]geom.Size, layout.Placeholders(*src))
		}
	default:
		if p, err = res.Config.Preset(res.Config.Window.Preset); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	b, leaves, err := p.Build(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	measured := b.Measure(nil, nil, geom.Size{})
	if cmd == "measure" {
		fmt.Printf("%dx%d\n", measured.Width, measured.Height)
		return 0
	}

	final := geom.Rect{Width: measured.Width, Height: measured.Height}
	if *rectFlag != "" {
		if final, err = parseRect(*rectFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	rects := layout.LeafRects(b, leaves, final)

	if cmd == "arrange" {
		for i, r := range rects {
			fmt.Printf("%d\t%d,%d\t%dx%d\n", i+1, r.X, r.Y, r.Width, r.Height)
		}
		return 0
	}

	cols, rows := 80, 24
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = w, h-1
		}
	}
	for _, line := range tui.Sketch(rects, final, cols, rows) {
		fmt.Println(line)
	}
	return 0
}

func parseSize(v string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(v), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("size %q: expected WxH", v)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return geom.Size{}, fmt.Errorf("size %q: %w", v, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return geom.Size{}, fmt.Errorf("size %q: %w", v, err)
	}
	if width < 0 || height < 0 {
		return geom.Size{}, fmt.Errorf("size %q: must not be negative", v)
	}
	return geom.Size{Width: width, Height: height}, nil
}

func parseRect(v string) (geom.Rect, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return geom.Rect{}, fmt.Errorf("rect %q: expected X,Y,W,H", v)
	}
	var n [4]int
	for i, p := range parts {
		var err error
		if n[i], err = strconv.Atoi(strings.TrimSpace(p)); err != nil {
			return geom.Rect{}, fmt.Errorf("rect %q: %w", v, err)
		}
	}
	if n[2] < 0 || n[3] < 0 {
		return geom.Rect{}, fmt.Errorf("rect %q: size must not be negative", v)
	}
	return geom.R(n[0], n[1], n[2], n[3]), nil
}
