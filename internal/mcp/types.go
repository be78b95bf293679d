package mcp

// Size is a preferred widget size.
type Size struct {
	Width  int `json:"width" jsonschema:"required,Width in pixels"`
	Height int `json:"height" jsonschema:"required,Height in pixels"`
}

// Rect is an arranged widget rectangle.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// BixInput selects a layout either by grammar or by configured preset name.
type BixInput struct {
	Bix     string `json:"bix,omitempty" jsonschema:"Bix layout grammar, e.g. Y[%,fX[%,%]]. Either bix or preset is required."`
	Preset  string `json:"preset,omitempty" jsonschema:"Name of a configured preset to use instead of bix"`
	Sizes   []Size `json:"sizes,omitempty" jsonschema:"Preferred size of each % placeholder in order. Required with bix unless every widget is zero-sized."`
	Spacing *int   `json:"spacing,omitempty" jsonschema:"Gap between cells (default: layout.spacing from config)"`
	Border  *int   `json:"border,omitempty" jsonschema:"Margin around the root (default: layout.border from config)"`
}

// ParseBixInput is the input for the bix_parse tool.
type ParseBixInput struct {
	Bix string `json:"bix" jsonschema:"required,Bix layout grammar to check"`
}

// ParseBixOutput is the output for the bix_parse tool.
type ParseBixOutput struct {
	Valid        bool   `json:"valid"`
	Placeholders int    `json:"placeholders"`
	Normalized   string `json:"normalized,omitempty"`
	Kind         string `json:"kind,omitempty"`
	Error        string `json:"error,omitempty"`
	Line         int    `json:"line,omitempty"`
	Column       int    `json:"column,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// MeasureBixOutput is the output for the bix_measure tool.
type MeasureBixOutput struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ArrangeBixInput is the input for the bix_arrange tool.
type ArrangeBixInput struct {
	Bix     string `json:"bix,omitempty" jsonschema:"Bix layout grammar. Either bix or preset is required."`
	Preset  string `json:"preset,omitempty" jsonschema:"Name of a configured preset to use instead of bix"`
	Sizes   []Size `json:"sizes,omitempty" jsonschema:"Preferred size of each % placeholder in order"`
	Spacing *int   `json:"spacing,omitempty" jsonschema:"Gap between cells (default: layout.spacing from config)"`
	Border  *int   `json:"border,omitempty" jsonschema:"Margin around the root (default: layout.border from config)"`
	X       int    `json:"x,omitempty" jsonschema:"Left edge of the target rectangle (default: 0)"`
	Y       int    `json:"y,omitempty" jsonschema:"Top edge of the target rectangle (default: 0)"`
	Width   int    `json:"width,omitempty" jsonschema:"Target width (default: measured width)"`
	Height  int    `json:"height,omitempty" jsonschema:"Target height (default: measured height)"`
}

func (in ArrangeBixInput) layout() BixInput {
	return BixInput{Bix: in.Bix, Preset: in.Preset, Sizes: in.Sizes, Spacing: in.Spacing, Border: in.Border}
}

// ArrangeBixOutput is the output for the bix_arrange tool.
type ArrangeBixOutput struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Rects  []Rect `json:"rects"`
}

// GridInput is the input for the grid_arrange tool.
type GridInput struct {
	Count  int    `json:"count" jsonschema:"required,Number of cells to place"`
	Width  int    `json:"width" jsonschema:"required,Area width"`
	Height int    `json:"height" jsonschema:"required,Area height"`
	Mode   string `json:"mode,omitempty" jsonschema:"auto, fixed, vertical, horizontal or master-stack (default: layout.grid.mode from config)"`
	Rows   int    `json:"rows,omitempty" jsonschema:"Rows for fixed mode"`
	Cols   int    `json:"cols,omitempty" jsonschema:"Columns for fixed mode"`
}

// GridOutput is the output for the grid_arrange tool.
type GridOutput struct {
	Mode  string `json:"mode"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Rects []Rect `json:"rects"`
}

// ListPresetsInput is the input for the list_presets tool.
type ListPresetsInput struct{}

// PresetInfo describes one configured preset.
type PresetInfo struct {
	Name         string `json:"name"`
	Bix          string `json:"bix"`
	Placeholders int    `json:"placeholders"`
}

// ListPresetsOutput is the output for the list_presets tool.
type ListPresetsOutput struct {
	Presets []PresetInfo `json:"presets"`
}
