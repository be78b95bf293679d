package widget

import (
	"errors"
	"fmt"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
)

// CreateOption configures a widget before its native window exists.
type CreateOption func(*Base)

// WithBounds sets the initial parent-relative geometry.
func WithBounds(r geom.Rect) CreateOption {
	return func(b *Base) { b.bounds = r }
}

// WithControlID sets the id child notifications are routed back with. It
// must be unique among the parent's children.
func WithControlID(id int) CreateOption {
	return func(b *Base) { b.controlID = id }
}

// WithPreferredSize sets the size hint used when no Layout is installed.
func WithPreferredSize(s geom.Size) CreateOption {
	return func(b *Base) { b.preferred = s }
}

// WithName sets a debug name used in logs.
func WithName(name string) CreateOption {
	return func(b *Base) { b.name = name }
}

// Hidden creates the widget invisible to layouts.
func Hidden() CreateOption {
	return func(b *Base) { b.hidden = true }
}

// ErrAlreadyCreated is returned when Create is called twice for one widget.
var ErrAlreadyCreated = errors.New("widget already created")

// Create runs the instance-creation step for w: it creates the native window
// eagerly, registers it and attaches w to parent. The class argument comes
// from Context.RegisterClass, so class registration always happens first.
// parent may be nil for top-level widgets.
func Create(ctx *Context, class *Class, w Widget, parent Widget, opts ...CreateOption) error {
	if ctx == nil || w == nil {
		return fmt.Errorf("create: context and widget are required")
	}
	ctx.AssertUIThread()
	if class == nil || class.ctx != ctx {
		return fmt.Errorf("create: class is not registered in this context")
	}

	b := w.Wrappee()
	if b.ctx != nil || b.handle != 0 {
		return ErrAlreadyCreated
	}
	for _, opt := range opts {
		opt(b)
	}

	var pb *Base
	if parent != nil {
		pb = parent.Wrappee()
		if !pb.Alive() || pb.ctx != ctx {
			return fmt.Errorf("create: parent is not a live widget of this context")
		}
		if b.controlID != 0 {
			if _, taken := ctx.reflect[reflectKey{parent: pb.handle, controlID: b.controlID}]; taken {
				return fmt.Errorf("create: control id %d already used under parent %q", b.controlID, pb.name)
			}
		}
	}

	var parentHandle platform.Handle
	if pb != nil {
		parentHandle = pb.handle
	}
	h, err := ctx.backend.CreateWindow(parentHandle, class.name, b.bounds)
	if err != nil {
		return fmt.Errorf("create %q: %w", b.name, err)
	}

	b.wrapper = w
	b.ctx = ctx
	b.handle = h
	ctx.registry[h] = b
	if pb != nil {
		b.parent = pb
		pb.children = append(pb.children, b)
		if b.controlID != 0 {
			ctx.reflect[reflectKey{parent: pb.handle, controlID: b.controlID}] = b
		}
	}
	ctx.logger.Debug("widget created", "widget", b.name, "handle", h, "class", class.name)
	return nil
}

// Destroy destroys w and all its descendants, children first. References
// to installed layouts and constraints are released.
func Destroy(w Widget) error {
	if w == nil {
		return nil
	}
	b := w.Wrappee()
	if !b.Alive() {
		return nil
	}
	ctx := b.ctx
	ctx.AssertUIThread()

	var errs []error
	for i := len(b.children) - 1; i >= 0; i-- {
		if err := Destroy(b.children[i].wrapper); err != nil {
			errs = append(errs, err)
		}
	}

	if b.layout != nil {
		b.layout.Release()
		b.layout = nil
	}
	if b.constraint != nil {
		b.constraint.Release()
		b.constraint = nil
	}

	if p := b.parent; p != nil {
		for i, c := range p.children {
			if c == b {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		if b.controlID != 0 {
			key := reflectKey{parent: p.handle, controlID: b.controlID}
			if ctx.reflect[key] == b {
				delete(ctx.reflect, key)
			}
		}
		b.parent = nil
	}
	delete(ctx.registry, b.handle)

	if err := ctx.backend.DestroyWindow(b.handle); err != nil {
		errs = append(errs, fmt.Errorf("destroy %q: %w", b.name, err))
	}
	ctx.logger.Debug("widget destroyed", "widget", b.name, "handle", b.handle)
	b.ctx = nil
	return errors.Join(errs...)
}
