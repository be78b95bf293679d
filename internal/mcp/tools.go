package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
	"github.com/1broseidon/wintk/internal/widget"
)

func (s *Server) handleParse(_ context.Context, _ *mcpsdk.CallToolRequest, args ParseBixInput) (*mcpsdk.CallToolResult, ParseBixOutput, error) {
	n := layout.Placeholders(args.Bix)
	leaves := make([]widget.Widget, n)
	for i := range leaves {
		leaves[i] = &widget.Base{}
	}

	out := ParseBixOutput{Placeholders: n}
	b, err := layout.ParseBix(args.Bix, layout.ParseOptions{}, leaves...)
	if err != nil {
		var perr *layout.ParseError
		if !errors.As(err, &perr) {
			return nil, ParseBixOutput{}, err
		}
		out.Error = perr.Msg
		out.Line = perr.Line
		out.Column = perr.Column
		out.Offset = perr.Index
		s.logger.Debug("bix_parse rejected layout", "bix", args.Bix, "error", err)
		return nil, out, nil
	}

	out.Valid = true
	out.Normalized = b.String()
	out.Kind = b.Kind.String()
	return nil, out, nil
}

func (s *Server) handleMeasure(_ context.Context, _ *mcpsdk.CallToolRequest, args BixInput) (*mcpsdk.CallToolResult, MeasureBixOutput, error) {
	b, _, err := s.build(args)
	if err != nil {
		return nil, MeasureBixOutput{}, err
	}
	size := b.Measure(nil, nil, geom.Size{})
	return nil, MeasureBixOutput{Width: size.Width, Height: size.Height}, nil
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeBixInput) (*mcpsdk.CallToolResult, ArrangeBixOutput, error) {
	if args.Width < 0 || args.Height < 0 {
		return nil, ArrangeBixOutput{}, fmt.Errorf("width and height must be >= 0")
	}
	b, leaves, err := s.build(args.layout())
	if err != nil {
		return nil, ArrangeBixOutput{}, err
	}

	final := geom.R(args.X, args.Y, args.Width, args.Height)
	measured := b.Measure(nil, nil, geom.Size{})
	if final.Width == 0 {
		final.Width = measured.Width
	}
	if final.Height == 0 {
		final.Height = measured.Height
	}

	rects := layout.LeafRects(b, leaves, final)
	out := ArrangeBixOutput{Width: final.Width, Height: final.Height, Rects: make([]Rect, len(rects))}
	for i, r := range rects {
		out.Rects[i] = toRect(r)
	}
	return nil, out, nil
}

func (s *Server) handleGrid(_ context.Context, _ *mcpsdk.CallToolRequest, args GridInput) (*mcpsdk.CallToolResult, GridOutput, error) {
	if args.Count < 0 {
		return nil, GridOutput{}, fmt.Errorf("count must be >= 0")
	}
	g := s.currentConfig().Grid()
	if args.Mode != "" {
		g.Mode = layout.GridMode(args.Mode)
	}
	switch g.Mode {
	case layout.GridAuto, layout.GridVertical, layout.GridHorizontal, layout.GridMasterStack:
	case layout.GridFixed:
		g.Rows, g.Cols = args.Rows, args.Cols
		if g.Rows < 1 || g.Cols < 1 {
			return nil, GridOutput{}, fmt.Errorf("fixed mode requires rows and cols >= 1")
		}
	default:
		return nil, GridOutput{}, fmt.Errorf("unknown grid mode %q", args.Mode)
	}

	rects, err := g.Positions(args.Count, geom.R(0, 0, args.Width, args.Height))
	if err != nil {
		return nil, GridOutput{}, err
	}
	rows, cols := g.Dims(args.Count)
	out := GridOutput{Mode: string(g.Mode), Rows: rows, Cols: cols, Rects: make([]Rect, len(rects))}
	for i, r := range rects {
		out.Rects[i] = toRect(r)
	}
	return nil, out, nil
}

func (s *Server) handleListPresets(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPresetsInput) (*mcpsdk.CallToolResult, ListPresetsOutput, error) {
	cfg := s.currentConfig()
	out := ListPresetsOutput{Presets: make([]PresetInfo, 0, len(cfg.Presets))}
	for _, name := range cfg.PresetNames() {
		p := cfg.Presets[name]
		out.Presets = append(out.Presets, PresetInfo{Name: name, Bix: p.Bix, Placeholders: layout.Placeholders(p.Bix)})
	}
	return nil, out, nil
}

// build resolves args against the configuration and parses the layout over
// detached leaf widgets.
func (s *Server) build(args BixInput) (*layout.Bix, []*widget.Base, error) {
	cfg := s.currentConfig()
	opts := cfg.ParseOptions()
	if args.Spacing != nil {
		opts.Spacing = *args.Spacing
	}
	if args.Border != nil {
		opts.Border = *args.Border
	}
	if opts.Spacing < 0 || opts.Border < 0 {
		return nil, nil, fmt.Errorf("spacing and border must be >= 0")
	}

	var p layout.Preset
	switch {
	case args.Bix != "" && args.Preset != "":
		return nil, nil, fmt.Errorf("bix and preset are mutually exclusive")
	case args.Preset != "":
		var err error
		if p, err = cfg.Preset(args.Preset); err != nil {
			return nil, nil, err
		}
		if len(args.Sizes) > 0 {
			p.Sizes = toSizes(args.Sizes)
		}
	case args.Bix != "":
		p = layout.Preset{Grammar: args.Bix, Sizes: toSizes(args.Sizes)}
		if len(args.Sizes) == 0 {
			p.Sizes = make([]geom.Size, layout.Placeholders(args.Bix))
		}
	default:
		return nil, nil, fmt.Errorf("either bix or preset is required")
	}

	b, leaves, err := p.Build(opts)
	if err != nil {
		return nil, nil, err
	}
	return b, leaves, nil
}

func toSizes(in []Size) []geom.Size {
	out := make([]geom.Size, len(in))
	for i, s := range in {
		out[i] = geom.Size{Width: s.Width, Height: s.Height}
	}
	return out
}

func toRect(r geom.Rect) Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
