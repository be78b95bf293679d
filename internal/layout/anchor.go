package layout

import (
	"strings"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/widget"
)

// Side is a set of container edges a child is pinned to.
type Side uint8

const (
	Left Side = 1 << iota
	Top
	Right
	Bottom

	TopLeft = Left | Top
	All     = Left | Top | Right | Bottom
)

func (s Side) String() string {
	var parts []string
	for _, sd := range []struct {
		side Side
		name string
	}{{Left, "left"}, {Top, "top"}, {Right, "right"}, {Bottom, "bottom"}} {
		if s&sd.side != 0 {
			parts = append(parts, sd.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// AnchorConstraint places a child at Rect as designed for a container of
// size Reference. When the container is resized the child follows the
// anchored sides: pinned to both opposite sides it stretches, pinned only to
// the far side it keeps its distance from that side, otherwise it keeps its
// position.
type AnchorConstraint struct {
	Rect      geom.Rect
	Sides     Side
	Reference geom.Size
}

func (AnchorConstraint) ConstraintKind() string { return "anchor" }

// Anchor positions children by their AnchorConstraint. Children without one
// are left where they are.
type Anchor struct{}

func (Anchor) Measure(_ *widget.Base, children []*widget.Base, _ geom.Size) geom.Size {
	var s geom.Size
	for _, c := range children {
		ac, ok := c.Constraint().(AnchorConstraint)
		if !ok {
			continue
		}
		s = s.Max(geom.Size{Width: ac.Rect.Right(), Height: ac.Rect.Bottom()})
	}
	return s
}

func (Anchor) Arrange(_ *widget.Base, children []*widget.Base, final geom.Rect) []widget.Placement {
	var out []widget.Placement
	for _, c := range children {
		ac, ok := c.Constraint().(AnchorConstraint)
		if !ok {
			continue
		}
		x, w := anchorAxis(ac.Rect.X, ac.Rect.Width, final.Width-ac.Reference.Width, ac.Sides&Left != 0, ac.Sides&Right != 0)
		y, h := anchorAxis(ac.Rect.Y, ac.Rect.Height, final.Height-ac.Reference.Height, ac.Sides&Top != 0, ac.Sides&Bottom != 0)
		out = append(out, widget.Placement{
			Widget: c,
			Rect:   geom.Rect{X: final.X + x, Y: final.Y + y, Width: w, Height: h},
		})
	}
	return out
}

// anchorAxis applies the container growth delta to one axis.
func anchorAxis(pos, size, delta int, near, far bool) (int, int) {
	switch {
	case near && far:
		return pos, max(size+delta, 0)
	case far:
		return pos + delta, size
	default:
		return pos, size
	}
}
