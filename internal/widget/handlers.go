package widget

import "github.com/1broseidon/wintk/internal/signal"

// fire emits ev on s unless the event was consumed or already fired.
func fire[T Eventer](s *signal.Signal[T], ev T) {
	e := ev.event()
	if e.consumed || e.fired {
		return
	}
	e.fired = true
	s.Emit(ev)
}

// OnResize fires Resized and re-lays out the children when the size differs
// from the one used by the last layout pass.
func (b *Base) OnResize(ev *ResizeEvent) {
	fire(&b.Resized, ev)
	if b.Layout() == nil || b.ctx == nil || ev.Size == b.laidOut {
		return
	}
	if err := b.ctx.RequestLayout(b.wrapper); err != nil {
		b.ctx.logger.Warn("layout after resize failed", "widget", b.name, "error", err)
	}
}

func (b *Base) OnPaint(ev *PaintEvent) { fire(&b.Painted, ev) }
func (b *Base) OnMouseDown(ev *MouseEvent) { fire(&b.MouseDown, ev) }
func (b *Base) OnMouseUp(ev *MouseEvent) { fire(&b.MouseUp, ev) }
func (b *Base) OnMouseMove(ev *MouseEvent) { fire(&b.MouseMove, ev) }
func (b *Base) OnScroll(ev *ScrollEvent) { fire(&b.Scrolled, ev) }
func (b *Base) OnKeyDown(ev *KeyEvent) { fire(&b.KeyDown, ev) }
func (b *Base) OnKeyUp(ev *KeyEvent) { fire(&b.KeyUp, ev) }
func (b *Base) OnSetCursor(ev *SetCursorEvent) { fire(&b.CursorQuery, ev) }
func (b *Base) OnChildAdded(ev *ChildEvent) { fire(&b.ChildAdded, ev) }
func (b *Base) OnChildRemoved(ev *ChildEvent) { fire(&b.ChildRemoved, ev) }
func (b *Base) OnCommand(ev *CommandEvent) { fire(&b.Command, ev) }
func (b *Base) OnNotify(ev *NotifyEvent) { fire(&b.Notify, ev) }
func (b *Base) OnDrawItem(ev *DrawItemEvent) { fire(&b.DrawItem, ev) }
func (b *Base) OnFocus(ev *FocusEvent) { fire(&b.Focus, ev) }
func (b *Base) OnClose(ev *CloseEvent) { fire(&b.Closed, ev) }
func (b *Base) OnLayout(ev *LayoutEvent) { fire(&b.LaidOut, ev) }

// Reflected notifications arrive at the child that generated them. By
// default they fire the same signals as a direct notification would.

func (b *Base) OnReflectedCommand(ev *CommandEvent) { fire(&b.Command, ev) }
func (b *Base) OnReflectedNotify(ev *NotifyEvent) { fire(&b.Notify, ev) }
func (b *Base) OnReflectedDrawItem(ev *DrawItemEvent) { fire(&b.DrawItem, ev) }
