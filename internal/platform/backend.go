package platform

import "github.com/1broseidon/wintk/internal/geom"

// Handle is a platform-neutral native window identifier.
type Handle uint32

// MessageID identifies a native message kind.
type MessageID uint32

// Result is the native result word returned to the window system.
type Result uint64

// Message is the opaque envelope delivered to a window. W and L are the two
// native parameter words; their meaning depends on ID (see messages.go).
// Payload is only set for cross-thread messages, after the receiving side
// has resolved the token carried in W.
type Message struct {
	Handle  Handle
	ID      MessageID
	W       uint64
	L       uint64
	Payload any
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds geom.Rect
	Usable geom.Rect
}

// Sink receives native messages and reports whether they were handled.
type Sink func(Message) (handled bool, result Result)

// DeferredMove batches window moves so they become visible together.
// Move only records the request; End applies all of them at once.
type DeferredMove interface {
	Move(h Handle, bounds geom.Rect) error
	End() error
}

// Backend abstracts window-system operations used by the toolkit.
type Backend interface {
	// RegisterClass makes a window class known to the window system. It must
	// run before any CreateWindow call naming that class.
	RegisterClass(name string) error
	CreateWindow(parent Handle, class string, bounds geom.Rect) (Handle, error)
	DestroyWindow(h Handle) error

	// RegisterMessage returns a process-wide id for name, the same id on
	// every call with the same name.
	RegisterMessage(name string) (MessageID, error)
	// Post queues msg for delivery on the UI goroutine. Safe for concurrent use.
	Post(msg Message) error

	BeginDeferredMove(count int) (DeferredMove, error)
	DefaultProc(msg Message) Result
}
