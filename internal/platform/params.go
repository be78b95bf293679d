package platform

import "github.com/1broseidon/wintk/internal/geom"

// Encoders and decoders for the parameter words of the well-known messages.
// Backends build messages with the New* functions; the dispatch engine reads
// them back with the matching splitters.

// NewResize reports that h now has bounds r.
func NewResize(h Handle, r geom.Rect) Message {
	return Message{Handle: h, ID: MsgResize, W: Pack(r.Width, r.Height), L: Pack(r.X, r.Y)}
}

// NewPaint asks h to repaint the dirty rectangle r.
func NewPaint(h Handle, r geom.Rect) Message {
	return Message{Handle: h, ID: MsgPaint, W: Pack(r.X, r.Y), L: Pack(r.Width, r.Height)}
}

// NewMouse builds a MsgMouseDown, MsgMouseUp or MsgMouseMove message.
func NewMouse(h Handle, id MessageID, button int, mods uint32, pos geom.Point) Message {
	return Message{Handle: h, ID: id, W: uint64(uint16(button)) | uint64(mods)<<16, L: Pack(pos.X, pos.Y)}
}

// SplitMouse decodes the W word of a mouse message.
func SplitMouse(w uint64) (button int, mods uint32) {
	return int(uint16(w)), uint32(w >> 16)
}

// NewScroll builds a scroll message. The upper half of W carries the
// orientation in its low byte and the modifiers above it.
func NewScroll(h Handle, orientation, delta int, mods uint32, pos geom.Point) Message {
	return Message{Handle: h, ID: MsgScroll, W: Pack(orientation&0xff|int(mods)<<8, delta), L: Pack(pos.X, pos.Y)}
}

// SplitScroll decodes the W word of a scroll message.
func SplitScroll(w uint64) (orientation, delta int, mods uint32) {
	hi, lo := Unpack(w)
	return hi & 0xff, lo, uint32(hi >> 8)
}

// NewKey builds a MsgKeyDown or MsgKeyUp message.
func NewKey(h Handle, id MessageID, keycode, keysym, mods uint32) Message {
	return Message{Handle: h, ID: id, W: uint64(keycode) | uint64(mods)<<32, L: uint64(keysym)}
}

// SplitKey decodes the W word of a key message.
func SplitKey(w uint64) (keycode, mods uint32) {
	return uint32(w), uint32(w >> 32)
}

// NewSetCursor asks h which cursor to show at pos.
func NewSetCursor(h Handle, hit int, pos geom.Point) Message {
	return Message{Handle: h, ID: MsgSetCursor, W: uint64(hit), L: Pack(pos.X, pos.Y)}
}

// NewCommand builds a command notification for parent. child is zero for
// commands that do not come from a child control.
func NewCommand(parent Handle, controlID, code int, child Handle) Message {
	return Message{Handle: parent, ID: MsgCommand, W: Pack(controlID, code), L: uint64(child)}
}

// NewNotify builds a rich notification for parent carrying data.
func NewNotify(parent Handle, controlID, code int, child Handle, data any) Message {
	return Message{Handle: parent, ID: MsgNotify, W: Pack(controlID, code), L: uint64(child), Payload: data}
}

// NewDrawItem asks parent to draw an owner-drawn child.
func NewDrawItem(parent Handle, controlID int, child Handle, data any) Message {
	return Message{Handle: parent, ID: MsgDrawItem, W: uint64(controlID), L: uint64(child), Payload: data}
}

// NewFocus reports focus gained or lost.
func NewFocus(h Handle, gained bool) Message {
	msg := Message{Handle: h, ID: MsgFocus}
	if gained {
		msg.W = 1
	}
	return msg
}

// NewClose asks h to close.
func NewClose(h Handle) Message {
	return Message{Handle: h, ID: MsgClose}
}
