package dispatch

import (
	"fmt"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/widget"
)

// deliver decodes msg, invokes the matching handler on w and returns the
// common event state. It returns nil for ids it does not know.
//
// Command, notify and draw-item notifications go to the child that generated
// them first. When no such child is found, or it leaves the event unconsumed,
// the parent handles the notification itself.
func (e *Engine) deliver(b *widget.Base, w widget.Widget, msg platform.Message) *widget.Event {
	base := widget.NewEvent(w, msg)

	switch msg.ID {
	case platform.MsgResize:
		width, height := platform.Unpack(msg.W)
		x, y := platform.Unpack(msg.L)
		b.SyncBounds(geom.R(x, y, width, height))
		ev := &widget.ResizeEvent{Event: base, Size: geom.Size{Width: width, Height: height}, Origin: geom.Point{X: x, Y: y}}
		w.OnResize(ev)
		return &ev.Event

	case platform.MsgPaint:
		x, y := platform.Unpack(msg.W)
		width, height := platform.Unpack(msg.L)
		ev := &widget.PaintEvent{Event: base, Dirty: geom.R(x, y, width, height)}
		w.OnPaint(ev)
		return &ev.Event

	case platform.MsgMouseDown, platform.MsgMouseUp, platform.MsgMouseMove:
		button, mods := platform.SplitMouse(msg.W)
		ev := &widget.MouseEvent{Event: base, Button: button, Modifiers: mods, Pos: point(msg.L)}
		switch msg.ID {
		case platform.MsgMouseDown:
			w.OnMouseDown(ev)
		case platform.MsgMouseUp:
			w.OnMouseUp(ev)
		default:
			w.OnMouseMove(ev)
		}
		return &ev.Event

	case platform.MsgScroll:
		orientation, delta, mods := platform.SplitScroll(msg.W)
		ev := &widget.ScrollEvent{Event: base, Orientation: orientation, Delta: delta, Modifiers: mods, Pos: point(msg.L)}
		w.OnScroll(ev)
		return &ev.Event

	case platform.MsgKeyDown, platform.MsgKeyUp:
		keycode, mods := platform.SplitKey(msg.W)
		ev := &widget.KeyEvent{Event: base, Keycode: keycode, Keysym: uint32(msg.L), Modifiers: mods}
		if msg.ID == platform.MsgKeyDown {
			w.OnKeyDown(ev)
		} else {
			w.OnKeyUp(ev)
		}
		return &ev.Event

	case platform.MsgSetCursor:
		ev := &widget.SetCursorEvent{Event: base, HitTest: int(msg.W), Pos: point(msg.L)}
		w.OnSetCursor(ev)
		return &ev.Event

	case platform.MsgChildAdded, platform.MsgChildRemoved:
		h := platform.Handle(msg.W)
		ev := &widget.ChildEvent{Event: base, Handle: h}
		if c, ok := e.ctx.Lookup(h); ok {
			ev.Child = c.Widget()
		}
		if msg.ID == platform.MsgChildAdded {
			w.OnChildAdded(ev)
		} else {
			w.OnChildRemoved(ev)
		}
		return &ev.Event

	case platform.MsgCommand:
		id, code := platform.Unpack(msg.W)
		child := platform.Handle(msg.L)
		if child != 0 {
			if target, ok := e.reflectTarget(b, id, child, msg); ok {
				ev := &widget.CommandEvent{Event: widget.NewEvent(target.Widget(), msg), ControlID: id, Code: code, Child: child}
				target.Widget().OnReflectedCommand(ev)
				if ev.Consumed() {
					return &ev.Event
				}
			}
		}
		ev := &widget.CommandEvent{Event: base, ControlID: id, Code: code, Child: child}
		w.OnCommand(ev)
		return &ev.Event

	case platform.MsgNotify:
		id, code := platform.Unpack(msg.W)
		child := platform.Handle(msg.L)
		if target, ok := e.reflectTarget(b, id, child, msg); ok {
			ev := &widget.NotifyEvent{Event: widget.NewEvent(target.Widget(), msg), ControlID: id, Code: code, Child: child, Data: msg.Payload}
			target.Widget().OnReflectedNotify(ev)
			if ev.Consumed() {
				return &ev.Event
			}
		}
		ev := &widget.NotifyEvent{Event: base, ControlID: id, Code: code, Child: child, Data: msg.Payload}
		w.OnNotify(ev)
		return &ev.Event

	case platform.MsgDrawItem:
		id := int(msg.W)
		child := platform.Handle(msg.L)
		if target, ok := e.reflectTarget(b, id, child, msg); ok {
			ev := &widget.DrawItemEvent{Event: widget.NewEvent(target.Widget(), msg), ControlID: id, Child: child, Data: msg.Payload}
			target.Widget().OnReflectedDrawItem(ev)
			if ev.Consumed() {
				return &ev.Event
			}
		}
		ev := &widget.DrawItemEvent{Event: base, ControlID: id, Child: child, Data: msg.Payload}
		w.OnDrawItem(ev)
		return &ev.Event

	case platform.MsgFocus:
		ev := &widget.FocusEvent{Event: base, Gained: msg.W != 0}
		w.OnFocus(ev)
		return &ev.Event

	case platform.MsgClose:
		ev := &widget.CloseEvent{Event: base}
		w.OnClose(ev)
		return &ev.Event
	}
	return nil
}

// reflectTarget finds the child of parent that generated a notification. The
// (parent, control id) table is consulted first; a child handle embedded in
// the message must agree with it. Failing that, the embedded handle is
// accepted when it names a live direct child of parent.
func (e *Engine) reflectTarget(parent *widget.Base, controlID int, child platform.Handle, msg platform.Message) (*widget.Base, bool) {
	if c, ok := e.ctx.LookupChild(parent.Handle(), controlID); ok && c.Alive() && (child == 0 || c.Handle() == child) {
		return c, true
	}
	if child != 0 {
		if c, ok := e.ctx.Lookup(child); ok && c.Alive() && c.Parent() == parent {
			return c, true
		}
	}
	err := fmt.Errorf("%w: control %d, window %d, parent %d", ErrReflectionFailed, controlID, child, parent.Handle())
	e.logger.Debug("notification not reflected", "handle", msg.Handle, "message", msg.ID, "error", err)
	return nil, false
}

func point(l uint64) geom.Point {
	x, y := platform.Unpack(l)
	return geom.Point{X: x, Y: y}
}
