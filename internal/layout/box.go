package layout

import (
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/widget"
)

// Orientation is the main axis of a Box.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// BoxConstraint marks a Box child that takes a share of the slack.
type BoxConstraint struct {
	Expand bool
}

func (BoxConstraint) ConstraintKind() string { return "box" }

// Box stacks children along one axis. Each child gets the full cross extent.
type Box struct {
	Orientation Orientation
	Spacing     int
	Border      int
	// Homogeneous gives every child the same main-axis size.
	Homogeneous bool
}

// main and cross project a size onto the box axes.
func (b Box) main(s geom.Size) int {
	if b.Orientation == Vertical {
		return s.Height
	}
	return s.Width
}

func (b Box) cross(s geom.Size) int {
	if b.Orientation == Vertical {
		return s.Width
	}
	return s.Height
}

func (b Box) Measure(_ *widget.Base, children []*widget.Base, fit geom.Size) geom.Size {
	if len(children) == 0 {
		return geom.Size{}
	}
	var total, largest, cross int
	for _, c := range children {
		s := widget.PreferredSizeOf(c, geom.Size{})
		total += b.main(s)
		largest = max(largest, b.main(s))
		cross = max(cross, b.cross(s))
	}
	if b.Homogeneous {
		total = largest * len(children)
	}
	total += b.Spacing*(len(children)-1) + 2*b.Border
	cross += 2 * b.Border
	if b.Orientation == Vertical {
		return geom.Size{Width: cross, Height: total}
	}
	return geom.Size{Width: total, Height: cross}
}

func (b Box) Arrange(_ *widget.Base, children []*widget.Base, final geom.Rect) []widget.Placement {
	if len(children) == 0 {
		return nil
	}
	inner := final.Inset(b.Border)
	usable := b.main(inner.Size()) - b.Spacing*(len(children)-1)

	natural := make([]int, len(children))
	expand := make([]bool, len(children))
	used := make([]bool, len(children))
	for i, c := range children {
		used[i] = true
		natural[i] = b.main(widget.PreferredSizeOf(c, geom.Size{}))
		if bc, ok := c.Constraint().(BoxConstraint); ok {
			expand[i] = bc.Expand
		}
	}
	sizes := distribute(natural, expand, used, usable, b.Homogeneous)

	out := make([]widget.Placement, len(children))
	pos := inner.X
	if b.Orientation == Vertical {
		pos = inner.Y
	}
	for i, c := range children {
		r := geom.Rect{X: pos, Y: inner.Y, Width: sizes[i], Height: inner.Height}
		if b.Orientation == Vertical {
			r = geom.Rect{X: inner.X, Y: pos, Width: inner.Width, Height: sizes[i]}
		}
		out[i] = widget.Placement{Widget: c, Rect: r}
		pos += sizes[i] + b.Spacing
	}
	return out
}
