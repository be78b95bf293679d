package widget

import (
	"fmt"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/shared"
)

// Layout arranges a container's children. Implementations hold
// configuration only; they never own widgets.
type Layout interface {
	// Measure returns the preferred size of parent for the given children.
	// It must not change any bounds. A zero fit means unconstrained.
	Measure(parent *Base, children []*Base, fit geom.Size) geom.Size

	// Arrange assigns a rectangle to children inside final. Calling it twice
	// with the same inputs must return the same placements.
	Arrange(parent *Base, children []*Base, final geom.Rect) []Placement
}

// Constraint is a per-child hint interpreted by the parent's Layout.
type Constraint interface {
	ConstraintKind() string
}

// Placement is one child rectangle produced by Layout.Arrange, in the
// parent's client coordinates.
type Placement struct {
	Widget *Base
	Rect   geom.Rect
}

// SetLayout installs l as b's layout, keeping its own reference. The
// previously installed layout reference is released. Passing nil removes the
// layout.
func (b *Base) SetLayout(l *shared.Ref[Layout]) {
	b.assertUI()
	var next *shared.Ref[Layout]
	if l != nil {
		next = l.Clone()
	}
	prev := b.layout
	b.layout = next
	b.laidOut = geom.Size{}
	if prev != nil {
		prev.Release()
	}
}

// Layout returns the installed layout, or nil.
func (b *Base) Layout() Layout {
	if b.layout == nil {
		return nil
	}
	return b.layout.Get()
}

// SetConstraint attaches c for the parent's layout. The previous constraint
// reference is released. Passing nil removes the constraint.
func (b *Base) SetConstraint(c *shared.Ref[Constraint]) {
	b.assertUI()
	var next *shared.Ref[Constraint]
	if c != nil {
		next = c.Clone()
	}
	prev := b.constraint
	b.constraint = next
	if prev != nil {
		prev.Release()
	}
}

// Constraint returns the attached constraint, or nil.
func (b *Base) Constraint() Constraint {
	if b.constraint == nil {
		return nil
	}
	return b.constraint.Get()
}

// RequestLayout runs a full measure, arrange and apply cycle for b's subtree.
func (b *Base) RequestLayout() error {
	if b.ctx == nil {
		return fmt.Errorf("request layout: widget %q is not created", b.name)
	}
	return b.ctx.RequestLayout(b.wrapper)
}

// SetBounds moves b's native window immediately and records the geometry.
// Top-level windows use it; children are positioned by their parent's
// layout.
func (b *Base) SetBounds(r geom.Rect) error {
	if b.ctx == nil {
		return fmt.Errorf("set bounds: widget %q is not created", b.name)
	}
	b.assertUI()
	dm, err := b.ctx.backend.BeginDeferredMove(1)
	if err != nil {
		return err
	}
	if err := dm.Move(b.handle, r); err != nil {
		return err
	}
	if err := dm.End(); err != nil {
		return err
	}
	b.bounds = r
	return nil
}

type move struct {
	node *Base
	rect geom.Rect
}

// layoutPass collects every assignment of one RequestLayout call before
// anything is moved.
type layoutPass struct {
	ctx        *Context
	moves      []move
	containers []*Base
}

func (p *layoutPass) collect(n *Base, client geom.Rect) {
	n.laidOut = client.Size()
	l := n.Layout()
	if l == nil {
		return
	}
	placements := l.Arrange(n, n.LayoutChildren(), client)
	for _, pl := range placements {
		c := pl.Widget
		if c == nil || c.parent != n {
			p.ctx.logger.Warn("layout placed a widget that is not its child",
				"container", n.name, "widget", nameOf(c))
			continue
		}
		if pl.Rect != c.bounds {
			p.moves = append(p.moves, move{node: c, rect: pl.Rect})
		}
		if c.Layout() != nil {
			p.containers = append(p.containers, c)
			p.collect(c, geom.Rect{Width: pl.Rect.Width, Height: pl.Rect.Height})
		}
	}
}

func nameOf(b *Base) string {
	if b == nil {
		return "<nil>"
	}
	return b.name
}

// RequestLayout lays out w's subtree. All new child rectangles are computed
// first, applied in a single deferred-move batch, and only then are the
// affected containers notified through OnLayout.
func (c *Context) RequestLayout(w Widget) error {
	c.AssertUIThread()
	if w == nil {
		return fmt.Errorf("request layout: widget is nil")
	}
	root := w.Wrappee()
	if root.ctx != c {
		return fmt.Errorf("request layout: widget %q does not belong to this context", root.name)
	}

	p := &layoutPass{ctx: c}
	p.collect(root, root.ClientRect())

	if len(p.moves) > 0 {
		if err := c.applyMoves(p.moves); err != nil {
			return err
		}
	}
	c.logger.Debug("layout pass applied", "widget", root.name, "moves", len(p.moves))

	notify := make([]*Base, 0, len(p.containers)+1)
	if root.Layout() != nil {
		notify = append(notify, root)
	}
	notify = append(notify, p.containers...)
	for _, n := range notify {
		if n.wrapper == nil || !n.Alive() {
			continue
		}
		ev := &LayoutEvent{
			Event:  NewEvent(n.wrapper, platform.Message{Handle: n.handle}),
			Bounds: n.bounds,
		}
		n.wrapper.OnLayout(ev)
	}
	return nil
}

func (c *Context) applyMoves(moves []move) error {
	dm, err := c.backend.BeginDeferredMove(len(moves))
	if err != nil {
		return fmt.Errorf("begin deferred move: %w", err)
	}
	for _, mv := range moves {
		if err := dm.Move(mv.node.handle, mv.rect); err != nil {
			return fmt.Errorf("deferred move of %q: %w", mv.node.name, err)
		}
	}
	if err := dm.End(); err != nil {
		return fmt.Errorf("end deferred move: %w", err)
	}
	for _, mv := range moves {
		mv.node.bounds = mv.rect
	}
	return nil
}
