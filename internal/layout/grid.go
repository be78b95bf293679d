package layout

import (
	"fmt"
	"math"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/widget"
)

// GridMode selects how a Grid derives its rows and columns.
type GridMode string

const (
	GridAuto        GridMode = "auto"
	GridFixed       GridMode = "fixed"
	GridVertical    GridMode = "vertical"
	GridHorizontal  GridMode = "horizontal"
	GridMasterStack GridMode = "master-stack"
)

// Grid tiles children into equal cells with a uniform Gap around and between
// them. It ignores preferred sizes when arranging.
type Grid struct {
	Mode GridMode
	// Rows and Cols apply to GridFixed. Children beyond Rows*Cols get an
	// empty rect.
	Rows, Cols int
	Gap        int
	// MaxCellWidth and MaxCellHeight cap the child size; the child is
	// centered in its cell. Zero means no cap.
	MaxCellWidth  int
	MaxCellHeight int
	// FlexibleLastRow lets a short last row spread across the full width.
	FlexibleLastRow bool

	// Master-stack settings: the first child takes MasterPercent of the
	// width, the rest fill a grid of at most MaxStackRows by MaxStackCols.
	MasterPercent int
	MaxStackRows  int
	MaxStackCols  int
}

// Dims returns the grid shape for n children. It is ceil(sqrt(n)) columns
// in auto mode.
func (g Grid) Dims(n int) (rows, cols int) {
	if n == 0 {
		return 0, 0
	}
	switch g.Mode {
	case GridFixed:
		return g.Rows, g.Cols
	case GridVertical:
		return n, 1
	case GridHorizontal:
		return 1, n
	case GridMasterStack:
		rows, cols = g.stackDims(n - 1)
		return max(rows, 1), cols + 1
	default:
		cols = int(math.Ceil(math.Sqrt(float64(n))))
		rows = int(math.Ceil(float64(n) / float64(cols)))
		return rows, cols
	}
}

func (g Grid) stackDims(stack int) (rows, cols int) {
	if stack <= 0 {
		return 0, 0
	}
	maxRows := max(g.MaxStackRows, 1)
	cols = int(math.Ceil(float64(stack) / float64(maxRows)))
	if g.MaxStackCols > 0 && cols > g.MaxStackCols {
		cols = g.MaxStackCols
	}
	cols = max(cols, 1)
	rows = min(int(math.Ceil(float64(stack)/float64(cols))), maxRows)
	return rows, cols
}

func (g Grid) Measure(_ *widget.Base, children []*widget.Base, _ geom.Size) geom.Size {
	if len(children) == 0 {
		return geom.Size{}
	}
	var cell geom.Size
	for _, c := range children {
		cell = cell.Max(widget.PreferredSizeOf(c, geom.Size{}))
	}
	rows, cols := g.Dims(len(children))
	return geom.Size{
		Width:  cols*cell.Width + (cols+1)*g.Gap,
		Height: rows*cell.Height + (rows+1)*g.Gap,
	}
}

func (g Grid) Arrange(parent *widget.Base, children []*widget.Base, final geom.Rect) []widget.Placement {
	if len(children) == 0 {
		return nil
	}
	rects, err := g.Positions(len(children), final)
	if err != nil {
		loggerFor(parent).Warn("grid layout does not fit", "error", err)
	}
	out := make([]widget.Placement, len(children))
	for i, c := range children {
		var r geom.Rect
		if i < len(rects) {
			r = rects[i]
		}
		out[i] = widget.Placement{Widget: c, Rect: r}
	}
	return out
}

// Positions computes the cell rectangles for n children inside area. The
// result can be shorter than n when the grid has a fixed capacity.
func (g Grid) Positions(n int, area geom.Rect) ([]geom.Rect, error) {
	if n == 0 {
		return nil, nil
	}
	if g.Mode == GridMasterStack {
		return g.masterStack(n, area)
	}

	rows, cols := g.Dims(n)
	flexibleLastRow := g.FlexibleLastRow && g.Mode == GridAuto
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}
	if n > rows*cols {
		n = rows * cols
	}

	slotWidth := (area.Width - (cols+1)*g.Gap) / cols
	slotHeight := (area.Height - (rows+1)*g.Gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for grid: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, g.Gap, slotWidth, slotHeight,
		)
	}
	cellWidth := capSize(slotWidth, g.MaxCellWidth)
	cellHeight := capSize(slotHeight, g.MaxCellHeight)

	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	if inLastRow <= 0 {
		inLastRow = cols
	}
	flex := flexibleLastRow && inLastRow < cols
	var lastSlotWidth, lastCellWidth int
	if flex {
		lastSlotWidth = (area.Width - (inLastRow+1)*g.Gap) / inLastRow
		lastCellWidth = capSize(lastSlotWidth, g.MaxCellWidth)
	}

	out := make([]geom.Rect, n)
	for i := 0; i < n; i++ {
		row, col := i/cols, i%cols
		sw, cw := slotWidth, cellWidth
		if flex && row == lastRow {
			sw, cw = lastSlotWidth, lastCellWidth
		}
		x := area.X + g.Gap + col*(sw+g.Gap) + (sw-cw)/2
		y := area.Y + g.Gap + row*(slotHeight+g.Gap) + (slotHeight-cellHeight)/2
		out[i] = geom.Rect{X: x, Y: y, Width: cw, Height: cellHeight}
	}
	return out, nil
}

func (g Grid) masterStack(n int, area geom.Rect) ([]geom.Rect, error) {
	percent := g.MasterPercent
	if percent <= 0 || percent >= 100 {
		percent = 50
	}
	masterWidth := area.Width*percent/100 - g.Gap
	height := area.Height - 2*g.Gap
	master := geom.Rect{X: area.X + g.Gap, Y: area.Y + g.Gap, Width: masterWidth, Height: height}
	if n == 1 {
		if masterWidth <= 0 || height <= 0 {
			return nil, fmt.Errorf("insufficient space for master pane: area=%dx%d gap=%d", area.Width, area.Height, g.Gap)
		}
		return []geom.Rect{master}, nil
	}

	stack := n - 1
	rows, cols := g.stackDims(stack)
	stack = min(stack, rows*cols)

	startX := area.X + masterWidth + 2*g.Gap
	regionWidth := area.Width - masterWidth - 3*g.Gap
	cellWidth := (regionWidth - (cols-1)*g.Gap) / cols
	cellHeight := (height - (rows-1)*g.Gap) / rows
	if masterWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack grid: area=%dx%d master=%d cell=%dx%d gap=%d",
			area.Width, area.Height, masterWidth, cellWidth, cellHeight, g.Gap,
		)
	}

	out := make([]geom.Rect, stack+1)
	out[0] = master
	for i := 0; i < stack; i++ {
		row, col := i/cols, i%cols
		out[i+1] = geom.Rect{
			X:      startX + col*(cellWidth+g.Gap),
			Y:      area.Y + g.Gap + row*(cellHeight+g.Gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return out, nil
}

func capSize(v, limit int) int {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}
