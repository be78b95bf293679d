// Package widget implements the widget tree: nodes wrapping native windows,
// their typed events and signals, and the layout pass that arranges them.
//
// Concrete widgets embed Base and override the OnXxx methods they care
// about. Base keeps a reference to the outer value (its wrapper), so the
// dispatch engine and layouts always reach the overriding method set:
//
//	type Button struct{ widget.Base }
//
//	func (b *Button) OnMouseDown(ev *widget.MouseEvent) {
//		b.pressed = true
//		b.Base.OnMouseDown(ev) // fires b.MouseDown
//	}
//
// Calling the embedded Base method is what fires the public signal; an
// override that skips it silences the signal for that event.
package widget

import (
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/shared"
	"github.com/1broseidon/wintk/internal/signal"
)

// Widget is the overridable method set of a widget. Every method except
// Wrappee has a default implementation on Base.
type Widget interface {
	// Wrappee returns the embedded Base.
	Wrappee() *Base

	// PreferredSize returns the size the widget would like given fit.
	// A zero fit means unconstrained.
	PreferredSize(fit geom.Size) geom.Size

	OnResize(ev *ResizeEvent)
	OnPaint(ev *PaintEvent)
	OnMouseDown(ev *MouseEvent)
	OnMouseUp(ev *MouseEvent)
	OnMouseMove(ev *MouseEvent)
	OnScroll(ev *ScrollEvent)
	OnKeyDown(ev *KeyEvent)
	OnKeyUp(ev *KeyEvent)
	OnSetCursor(ev *SetCursorEvent)
	OnChildAdded(ev *ChildEvent)
	OnChildRemoved(ev *ChildEvent)
	OnCommand(ev *CommandEvent)
	OnNotify(ev *NotifyEvent)
	OnDrawItem(ev *DrawItemEvent)
	OnReflectedCommand(ev *CommandEvent)
	OnReflectedNotify(ev *NotifyEvent)
	OnReflectedDrawItem(ev *DrawItemEvent)
	OnFocus(ev *FocusEvent)
	OnClose(ev *CloseEvent)
	OnLayout(ev *LayoutEvent)
}

// PreTranslator is implemented by widgets that want to see raw messages
// before they are decoded. Returning true ends dispatch for the message.
type PreTranslator interface {
	PreTranslateMessage(msg platform.Message) bool
}

// Base is the widget node embedded by every widget.
type Base struct {
	wrapper Widget
	ctx     *Context
	handle  platform.Handle
	name    string

	parent   *Base
	children []*Base

	bounds    geom.Rect
	preferred geom.Size
	laidOut   geom.Size
	controlID int
	hidden    bool
	disabled  bool

	layout     *shared.Ref[Layout]
	constraint *shared.Ref[Constraint]

	Resized      signal.Signal[*ResizeEvent]
	Painted      signal.Signal[*PaintEvent]
	MouseDown    signal.Signal[*MouseEvent]
	MouseUp      signal.Signal[*MouseEvent]
	MouseMove    signal.Signal[*MouseEvent]
	Scrolled     signal.Signal[*ScrollEvent]
	KeyDown      signal.Signal[*KeyEvent]
	KeyUp        signal.Signal[*KeyEvent]
	CursorQuery  signal.Signal[*SetCursorEvent]
	ChildAdded   signal.Signal[*ChildEvent]
	ChildRemoved signal.Signal[*ChildEvent]
	Command      signal.Signal[*CommandEvent]
	Notify       signal.Signal[*NotifyEvent]
	DrawItem     signal.Signal[*DrawItemEvent]
	Focus        signal.Signal[*FocusEvent]
	Closed       signal.Signal[*CloseEvent]
	LaidOut      signal.Signal[*LayoutEvent]
}

var _ Widget = (*Base)(nil)

// Wrappee returns b itself.
func (b *Base) Wrappee() *Base { return b }

// Widget returns the outer value wrapping b, or nil before Create.
func (b *Base) Widget() Widget { return b.wrapper }

// Context returns the context b was created in, or nil.
func (b *Base) Context() *Context { return b.ctx }

// Handle returns the native window handle.
func (b *Base) Handle() platform.Handle { return b.handle }

// Name returns the debug name given at creation.
func (b *Base) Name() string { return b.name }

// Alive reports whether the widget has been created and not destroyed.
func (b *Base) Alive() bool { return b.ctx != nil }

// Parent returns the parent node, or nil for top-level widgets.
func (b *Base) Parent() *Base { return b.parent }

// Children returns a copy of the ordered child list.
func (b *Base) Children() []*Base {
	out := make([]*Base, len(b.children))
	copy(out, b.children)
	return out
}

// LayoutChildren returns the visible children in order, the list a
// container's Layout arranges.
func (b *Base) LayoutChildren() []*Base {
	out := make([]*Base, 0, len(b.children))
	for _, c := range b.children {
		if !c.hidden {
			out = append(out, c)
		}
	}
	return out
}

// Bounds returns the parent-relative geometry from the last layout pass or
// window-system report.
func (b *Base) Bounds() geom.Rect { return b.bounds }

// ClientRect returns the widget's own coordinate space.
func (b *Base) ClientRect() geom.Rect {
	return geom.Rect{Width: b.bounds.Width, Height: b.bounds.Height}
}

// SyncBounds records geometry reported by the window system. It does not
// move the native window.
func (b *Base) SyncBounds(r geom.Rect) { b.bounds = r }

// ControlID returns the id used to route child notifications back to b.
func (b *Base) ControlID() int { return b.controlID }

func (b *Base) Visible() bool { return !b.hidden }
func (b *Base) Enabled() bool { return !b.disabled }

// SetVisible changes visibility. Hidden children are skipped by layouts.
func (b *Base) SetVisible(v bool) {
	b.assertUI()
	b.hidden = !v
}

func (b *Base) SetEnabled(v bool) {
	b.assertUI()
	b.disabled = !v
}

// SetPreferredSize sets the size hint used when no Layout is installed.
func (b *Base) SetPreferredSize(s geom.Size) {
	b.assertUI()
	b.preferred = s
}

// PreferredSize measures the installed Layout, or falls back to the size
// hint and then to the current size.
func (b *Base) PreferredSize(fit geom.Size) geom.Size {
	if l := b.Layout(); l != nil {
		return l.Measure(b, b.LayoutChildren(), fit)
	}
	if !b.preferred.IsZero() {
		return b.preferred
	}
	return b.bounds.Size()
}

// PreferredSizeOf asks the outer widget of n for its preferred size. Layouts
// must use this instead of n.PreferredSize so overrides are honored.
func PreferredSizeOf(n *Base, fit geom.Size) geom.Size {
	if n.wrapper != nil {
		return n.wrapper.PreferredSize(fit)
	}
	return n.PreferredSize(fit)
}

func (b *Base) assertUI() {
	if b.ctx != nil {
		b.ctx.AssertUIThread()
	}
}
