package widget

import (
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
)

// Event is the common part of every typed event. Events live for a single
// dispatch and must not be retained by handlers.
type Event struct {
	source   Widget
	msg      platform.Message
	consumed bool
	fired    bool

	// Result is returned to the window system when the event is consumed.
	Result platform.Result
}

// NewEvent builds the common event part for a message addressed to source.
func NewEvent(source Widget, msg platform.Message) Event {
	return Event{source: source, msg: msg}
}

func (e *Event) event() *Event { return e }

// Source returns the widget the event is delivered to.
func (e *Event) Source() Widget { return e.source }

// Message returns the native message the event was decoded from.
func (e *Event) Message() platform.Message { return e.msg }

// Consume marks the event handled. Default window-system processing is
// skipped for consumed events and no further signal is fired for it.
func (e *Event) Consume() { e.consumed = true }

// Consumed reports whether a handler consumed the event.
func (e *Event) Consumed() bool { return e.consumed }

// Fired reports whether the event's signal has already been emitted.
func (e *Event) Fired() bool { return e.fired }

// Eventer is implemented by all typed events.
type Eventer interface {
	event() *Event
}

// Common returns the shared event state of ev.
func Common(ev Eventer) *Event {
	return ev.event()
}

type ResizeEvent struct {
	Event
	Size   geom.Size
	Origin geom.Point
}

type PaintEvent struct {
	Event
	Dirty geom.Rect
}

type MouseEvent struct {
	Event
	Button    int
	Modifiers uint32
	Pos       geom.Point
}

type ScrollEvent struct {
	Event
	Orientation int
	Delta       int
	Modifiers   uint32
	Pos         geom.Point
}

// Horizontal reports whether the scroll is along the x axis.
func (e *ScrollEvent) Horizontal() bool {
	return e.Orientation == platform.ScrollHorizontal
}

type KeyEvent struct {
	Event
	Keycode   uint32
	Keysym    uint32
	Modifiers uint32
}

// SetCursorEvent asks the widget which cursor to show. Handlers set Cursor
// and consume the event to override the default.
type SetCursorEvent struct {
	Event
	HitTest int
	Pos     geom.Point
	Cursor  string
}

// ChildEvent reports a native child window being created or destroyed.
// Child is nil when the window is not wrapped by the toolkit.
type ChildEvent struct {
	Event
	Handle platform.Handle
	Child  Widget
}

// CommandEvent is a command notification. Child is zero for commands that
// did not originate from a child control (menus, accelerators).
type CommandEvent struct {
	Event
	ControlID int
	Code      int
	Child     platform.Handle
}

type NotifyEvent struct {
	Event
	ControlID int
	Code      int
	Child     platform.Handle
	Data      any
}

type DrawItemEvent struct {
	Event
	ControlID int
	Child     platform.Handle
	Data      any
}

type FocusEvent struct {
	Event
	Gained bool
}

type CloseEvent struct {
	Event
}

// LayoutEvent is delivered to a container after a layout pass has applied
// new bounds to it and its children.
type LayoutEvent struct {
	Event
	Bounds geom.Rect
}
