package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
)

// SizeConfig is a width/height pair.
type SizeConfig struct {
	Width  int `yaml:"width" toml:"width"`
	Height int `yaml:"height" toml:"height"`
}

// GridConfig configures the Grid layout used for tiled children.
type GridConfig struct {
	Mode            layout.GridMode `yaml:"mode" toml:"mode"`
	Rows            int             `yaml:"rows,omitempty" toml:"rows,omitempty"` // fixed mode only
	Cols            int             `yaml:"cols,omitempty" toml:"cols,omitempty"` // fixed mode only
	Gap             int             `yaml:"gap" toml:"gap"`
	MaxCellWidth    int             `yaml:"max_cell_width" toml:"max_cell_width"`   // 0 = unlimited
	MaxCellHeight   int             `yaml:"max_cell_height" toml:"max_cell_height"` // 0 = unlimited
	FlexibleLastRow bool            `yaml:"flexible_last_row" toml:"flexible_last_row"`
	MasterPercent   int             `yaml:"master_percent,omitempty" toml:"master_percent,omitempty"` // 10-90
	MaxStackRows    int             `yaml:"max_stack_rows,omitempty" toml:"max_stack_rows,omitempty"`
	MaxStackCols    int             `yaml:"max_stack_cols,omitempty" toml:"max_stack_cols,omitempty"`
}

// LayoutConfig holds layout defaults.
type LayoutConfig struct {
	// Spacing is the gap between Bix cells, Border the margin around the root.
	Spacing int        `yaml:"spacing" toml:"spacing"`
	Border  int        `yaml:"border" toml:"border"`
	Grid    GridConfig `yaml:"grid" toml:"grid"`
}

// RegionConfig places the main window on the active display.
type RegionConfig struct {
	Type          layout.RegionKind `yaml:"type" toml:"type"`
	XPercent      int               `yaml:"x_percent,omitempty" toml:"x_percent,omitempty"`           // 0-100
	YPercent      int               `yaml:"y_percent,omitempty" toml:"y_percent,omitempty"`           // 0-100
	WidthPercent  int               `yaml:"width_percent,omitempty" toml:"width_percent,omitempty"`   // 0-100
	HeightPercent int               `yaml:"height_percent,omitempty" toml:"height_percent,omitempty"` // 0-100
}

// WindowConfig configures the demo top-level window.
type WindowConfig struct {
	Title  string       `yaml:"title" toml:"title"`
	Width  int          `yaml:"width" toml:"width"`
	Height int          `yaml:"height" toml:"height"`
	Region RegionConfig `yaml:"region" toml:"region"`
	// Preset names the Bix preset the window lays out.
	Preset string `yaml:"preset" toml:"preset"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level" toml:"level"`
	// Format is text or json
	Format string `yaml:"format,omitempty" toml:"format,omitempty"`
	// File redirects logs from stderr to a file
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// DebugConfig holds developer switches.
type DebugConfig struct {
	// ThreadCheck panics when UI-only calls come from a foreign goroutine.
	ThreadCheck bool `yaml:"thread_check" toml:"thread_check"`
}

// PresetConfig is a named Bix layout with the preferred sizes of its
// placeholders, in order.
type PresetConfig struct {
	Bix   string       `yaml:"bix" toml:"bix"`
	Sizes []SizeConfig `yaml:"sizes" toml:"sizes"`
}

// Config is the effective configuration.
type Config struct {
	Layout  LayoutConfig            `yaml:"layout" toml:"layout"`
	Window  WindowConfig            `yaml:"window" toml:"window"`
	Logging LoggingConfig           `yaml:"logging" toml:"logging"`
	Debug   DebugConfig             `yaml:"debug" toml:"debug"`
	Hotkeys map[string]int          `yaml:"hotkeys" toml:"hotkeys"` // key sequence -> command id
	Presets map[string]PresetConfig `yaml:"presets" toml:"presets"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			Spacing: 4,
			Border:  8,
			Grid: GridConfig{
				Mode:            layout.GridAuto,
				Gap:             4,
				FlexibleLastRow: true,
				MasterPercent:   50,
				MaxStackRows:    3,
				MaxStackCols:    1,
			},
		},
		Window: WindowConfig{
			Title:  "wintk",
			Width:  640,
			Height: 480,
			Region: RegionConfig{Type: layout.RegionCentered},
			Preset: DefaultPreset,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Hotkeys: map[string]int{},
		Presets: BuiltinPresets(),
	}
}

// ValidationError reports an invalid setting. Source is filled in when the
// setting came from a file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks every section. Preset errors wrap the *layout.ParseError
// so callers can report the position inside the grammar.
func (c *Config) Validate() error {
	if c.Layout.Spacing < 0 {
		return &ValidationError{Path: "layout.spacing", Err: fmt.Errorf("spacing must be >= 0")}
	}
	if c.Layout.Border < 0 {
		return &ValidationError{Path: "layout.border", Err: fmt.Errorf("border must be >= 0")}
	}
	if err := validateGrid(c.Layout.Grid); err != nil {
		return err
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return &ValidationError{Path: "window", Err: fmt.Errorf("width and height must be > 0")}
	}
	if err := validateRegion(c.Window.Region); err != nil {
		return err
	}
	if c.Window.Preset != "" {
		if _, ok := c.Presets[c.Window.Preset]; !ok {
			return &ValidationError{Path: "window.preset", Err: fmt.Errorf("preset %q not found in presets", c.Window.Preset)}
		}
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return &ValidationError{Path: "logging.level", Err: err}
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}

	for keys, id := range c.Hotkeys {
		if strings.TrimSpace(keys) == "" {
			return &ValidationError{Path: "hotkeys", Err: fmt.Errorf("hotkeys contains an empty key sequence")}
		}
		if id <= 0 {
			return &ValidationError{Path: "hotkeys." + keys, Err: fmt.Errorf("command id must be > 0")}
		}
	}

	for _, name := range c.PresetNames() {
		p := c.Presets[name]
		if strings.TrimSpace(p.Bix) == "" {
			return &ValidationError{Path: "presets." + name + ".bix", Err: fmt.Errorf("bix must not be empty")}
		}
		for i, s := range p.Sizes {
			if s.Width < 0 || s.Height < 0 {
				return &ValidationError{Path: fmt.Sprintf("presets.%s.sizes[%d]", name, i), Err: fmt.Errorf("sizes must be >= 0")}
			}
		}
		if _, _, err := c.layoutPreset(p).Build(c.ParseOptions()); err != nil {
			return &ValidationError{Path: "presets." + name + ".bix", Err: err}
		}
	}
	return nil
}

func validateGrid(g GridConfig) error {
	switch g.Mode {
	case layout.GridAuto, layout.GridVertical, layout.GridHorizontal:
	case layout.GridFixed:
		if g.Rows < 1 || g.Cols < 1 {
			return &ValidationError{Path: "layout.grid", Err: fmt.Errorf("fixed mode requires rows and cols >= 1")}
		}
	case layout.GridMasterStack:
		if g.MasterPercent < 10 || g.MasterPercent > 90 {
			return &ValidationError{Path: "layout.grid.master_percent", Err: fmt.Errorf("master_percent must be between 10 and 90")}
		}
		if g.MaxStackRows < 1 || g.MaxStackCols < 1 {
			return &ValidationError{Path: "layout.grid", Err: fmt.Errorf("max_stack_rows and max_stack_cols must be >= 1")}
		}
	default:
		return &ValidationError{Path: "layout.grid.mode", Err: fmt.Errorf("mode must be one of: auto, fixed, vertical, horizontal, master-stack")}
	}
	if g.Gap < 0 || g.MaxCellWidth < 0 || g.MaxCellHeight < 0 {
		return &ValidationError{Path: "layout.grid", Err: fmt.Errorf("gap and cell limits must be >= 0")}
	}
	return nil
}

func validateRegion(r RegionConfig) error {
	switch r.Type {
	case layout.RegionFull, layout.RegionLeftHalf, layout.RegionRightHalf,
		layout.RegionTopHalf, layout.RegionBottomHalf, layout.RegionCentered:
		return nil
	case layout.RegionCustom:
		for _, v := range []int{r.XPercent, r.YPercent, r.WidthPercent, r.HeightPercent} {
			if v < 0 || v > 100 {
				return &ValidationError{Path: "window.region", Err: fmt.Errorf("percentages must be between 0 and 100")}
			}
		}
		if r.WidthPercent == 0 || r.HeightPercent == 0 {
			return &ValidationError{Path: "window.region", Err: fmt.Errorf("custom region needs width_percent and height_percent")}
		}
		return nil
	default:
		return &ValidationError{Path: "window.region.type", Err: fmt.Errorf("unknown region type %q", r.Type)}
	}
}

// ParseLevel maps a level name to its slog level. "warning" is accepted as
// an alias of "warn".
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("level must be one of: debug, info, warn, error")
}

// ParseOptions returns the Bix parse options for the layout section.
func (c *Config) ParseOptions() layout.ParseOptions {
	return layout.ParseOptions{Spacing: c.Layout.Spacing, Border: c.Layout.Border}
}

// Grid returns the configured Grid layout.
func (c *Config) Grid() layout.Grid {
	g := c.Layout.Grid
	return layout.Grid{
		Mode:            g.Mode,
		Rows:            g.Rows,
		Cols:            g.Cols,
		Gap:             g.Gap,
		MaxCellWidth:    g.MaxCellWidth,
		MaxCellHeight:   g.MaxCellHeight,
		FlexibleLastRow: g.FlexibleLastRow,
		MasterPercent:   g.MasterPercent,
		MaxStackRows:    g.MaxStackRows,
		MaxStackCols:    g.MaxStackCols,
	}
}

// Region returns where the main window goes on its display.
func (c *Config) Region() layout.Region {
	r := c.Window.Region
	return layout.Region{
		Kind:          r.Type,
		XPercent:      r.XPercent,
		YPercent:      r.YPercent,
		WidthPercent:  r.WidthPercent,
		HeightPercent: r.HeightPercent,
	}
}

// Preset returns the named preset.
func (c *Config) Preset(name string) (layout.Preset, error) {
	p, ok := c.Presets[name]
	if !ok {
		return layout.Preset{}, fmt.Errorf("preset %q not found", name)
	}
	return c.layoutPreset(p), nil
}

func (c *Config) layoutPreset(p PresetConfig) layout.Preset {
	sizes := make([]geom.Size, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = geom.Size{Width: s.Width, Height: s.Height}
	}
	return layout.Preset{Grammar: p.Bix, Sizes: sizes}
}

// PresetNames returns the preset names in sorted order.
func (c *Config) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for name := range c.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
