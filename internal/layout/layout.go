// Package layout provides the layout variants installed on containers with
// widget.Base.SetLayout: Null, Fill, Box, Anchor, Grid and Bix.
//
// Every variant follows the same contract. Measure never changes bounds, and
// Arrange returns the same placements for the same inputs. Applying the
// placements is the job of widget.Context.RequestLayout.
package layout

import (
	"log/slog"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/shared"
	"github.com/1broseidon/wintk/internal/widget"
)

// Install wraps l in a reference, installs it on w and drops the caller's
// reference, so w becomes the sole owner.
func Install(w widget.Widget, l widget.Layout) {
	ref := shared.New(l)
	w.Wrappee().SetLayout(ref)
	ref.Release()
}

// Constrain attaches c to w with w as the sole owner.
func Constrain(w widget.Widget, c widget.Constraint) {
	ref := shared.New(c)
	w.Wrappee().SetConstraint(ref)
	ref.Release()
}

// Null leaves children where they are.
type Null struct{}

func (Null) Measure(_ *widget.Base, _ []*widget.Base, fit geom.Size) geom.Size { return fit }

func (Null) Arrange(*widget.Base, []*widget.Base, geom.Rect) []widget.Placement { return nil }

// Fill gives every child the whole client area minus Border.
type Fill struct {
	Border int
}

func (f Fill) Measure(_ *widget.Base, children []*widget.Base, fit geom.Size) geom.Size {
	var s geom.Size
	for _, c := range children {
		s = s.Max(widget.PreferredSizeOf(c, fit))
	}
	return s.Grow(2*f.Border, 2*f.Border)
}

func (f Fill) Arrange(_ *widget.Base, children []*widget.Base, final geom.Rect) []widget.Placement {
	r := final.Inset(f.Border)
	out := make([]widget.Placement, 0, len(children))
	for _, c := range children {
		out = append(out, widget.Placement{Widget: c, Rect: r})
	}
	return out
}

func loggerFor(parent *widget.Base) *slog.Logger {
	if parent != nil {
		if ctx := parent.Context(); ctx != nil {
			return ctx.Logger()
		}
	}
	return slog.Default()
}
