//go:build linux

package platform

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/x11"
)

// messageAtom names the ClientMessage type that carries posted messages.
// Its five data words are the message id and the two halves of W and L.
const messageAtom = "_WINTK_MESSAGE"

// LinuxBackend implements Backend on an X11 connection. Native events are
// translated into Messages and handed to the sink on the goroutine running
// EventLoop, which is the UI goroutine.
type LinuxBackend struct {
	conn   *x11.Connection
	logger *slog.Logger

	msgType   xproto.Atom
	protocols xproto.Atom
	deleteWin xproto.Atom

	mu      sync.Mutex
	classes map[string]struct{}
	windows map[Handle]*linuxWindow
	sink    Sink
}

type linuxWindow struct {
	parent Handle
	class  string
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, logger *slog.Logger) (*LinuxBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &LinuxBackend{
		conn:    conn,
		logger:  logger,
		classes: make(map[string]struct{}),
		windows: make(map[Handle]*linuxWindow),
	}

	var err error
	if b.msgType, err = conn.Atom(messageAtom); err != nil {
		return nil, err
	}
	if b.protocols, err = conn.Atom("WM_PROTOCOLS"); err != nil {
		return nil, err
	}
	if b.deleteWin, err = conn.Atom("WM_DELETE_WINDOW"); err != nil {
		return nil, err
	}
	return b, nil
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(logger *slog.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	b, err := NewLinuxBackend(conn, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

// SetSink installs the function receiving translated messages.
func (b *LinuxBackend) SetSink(s Sink) {
	b.mu.Lock()
	b.sink = s
	b.mu.Unlock()
}

// EventLoop runs the X11 event loop until Quit is called. The calling
// goroutine becomes the UI goroutine.
func (b *LinuxBackend) EventLoop() {
	b.conn.EventLoop()
}

// Quit stops EventLoop. Safe for concurrent use.
func (b *LinuxBackend) Quit() {
	b.conn.Quit()
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	return b.conn.Root
}

func (b *LinuxBackend) RegisterClass(name string) error {
	if name == "" {
		return fmt.Errorf("class name is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.classes[name] = struct{}{}
	return nil
}

func (b *LinuxBackend) CreateWindow(parent Handle, class string, bounds geom.Rect) (Handle, error) {
	b.mu.Lock()
	_, known := b.classes[class]
	_, parentOK := b.windows[parent]
	b.mu.Unlock()

	if !known {
		return 0, fmt.Errorf("window class %q is not registered", class)
	}
	if parent != 0 && !parentOK {
		return 0, fmt.Errorf("parent window %d does not exist", parent)
	}

	win, err := b.conn.CreateWindow(xproto.Window(parent), class, bounds)
	if err != nil {
		return 0, err
	}
	h := Handle(win)

	b.mu.Lock()
	b.windows[h] = &linuxWindow{parent: parent, class: class}
	b.mu.Unlock()

	b.attach(h)
	if parent != 0 {
		if err := b.Post(Message{Handle: parent, ID: MsgChildAdded, W: uint64(h)}); err != nil {
			b.logger.Warn("child-added notification lost", "parent", parent, "child", h, "error", err)
		}
	}
	b.logger.Debug("window created", "handle", h, "class", class, "parent", parent, "bounds", bounds)
	return h, nil
}

func (b *LinuxBackend) DestroyWindow(h Handle) error {
	b.mu.Lock()
	w, ok := b.windows[h]
	if !ok {
		b.mu.Unlock()
		return fmt.Errorf("window %d does not exist", h)
	}
	// X destroys the whole subtree.
	gone := b.subtreeLocked(h)
	for _, d := range gone {
		delete(b.windows, d)
	}
	_, parentAlive := b.windows[w.parent]
	b.mu.Unlock()

	for _, d := range gone {
		xevent.Detach(b.conn.XUtil, xproto.Window(d))
	}
	if err := b.conn.DestroyWindow(xproto.Window(h)); err != nil {
		return fmt.Errorf("failed to destroy window %d: %w", h, err)
	}
	if w.parent != 0 && parentAlive {
		if err := b.Post(Message{Handle: w.parent, ID: MsgChildRemoved, W: uint64(h)}); err != nil {
			b.logger.Warn("child-removed notification lost", "parent", w.parent, "child", h, "error", err)
		}
	}
	return nil
}

func (b *LinuxBackend) subtreeLocked(h Handle) []Handle {
	out := []Handle{h}
	for i := 0; i < len(out); i++ {
		for c, w := range b.windows {
			if w.parent == out[i] {
				out = append(out, c)
			}
		}
	}
	return out
}

// RegisterMessage interns name as an X atom; the atom value makes the id
// stable for the lifetime of the X server.
func (b *LinuxBackend) RegisterMessage(name string) (MessageID, error) {
	if name == "" {
		return 0, fmt.Errorf("message name is empty")
	}
	atom, err := b.conn.Atom(name)
	if err != nil {
		return 0, err
	}
	return FirstRegistered + MessageID(atom), nil
}

// Post sends msg to its window as a ClientMessage; it comes back through
// EventLoop. Payload is not transmitted.
func (b *LinuxBackend) Post(msg Message) error {
	b.mu.Lock()
	_, ok := b.windows[msg.Handle]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("window %d does not exist", msg.Handle)
	}

	return b.conn.SendClientMessage(xproto.Window(msg.Handle), b.msgType,
		uint32(msg.ID),
		uint32(msg.W>>32), uint32(msg.W),
		uint32(msg.L>>32), uint32(msg.L))
}

func (b *LinuxBackend) BeginDeferredMove(count int) (DeferredMove, error) {
	return &linuxBatch{backend: b, moves: make([]x11.Configure, 0, count)}, nil
}

func (b *LinuxBackend) DefaultProc(Message) Result {
	return 0
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m))
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

// ActiveDisplay returns the currently active display.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	active, err := b.conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}
	return displayFromMonitor(*active), nil
}

// SetTitle sets the title of a top-level window.
func (b *LinuxBackend) SetTitle(h Handle, title string) error {
	return b.conn.SetTitle(xproto.Window(h), title)
}

// Activate raises and focuses a top-level window.
func (b *LinuxBackend) Activate(h Handle) error {
	return b.conn.Activate(xproto.Window(h))
}

func displayFromMonitor(m x11.Monitor) Display {
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: m.Bounds,
		Usable: m.WorkArea,
	}
}

func (b *LinuxBackend) deliver(msg Message) {
	b.mu.Lock()
	sink := b.sink
	b.mu.Unlock()
	if sink == nil {
		return
	}
	sink(msg)
}

func (b *LinuxBackend) isTopLevel(h Handle) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[h]
	return ok && w.parent == 0
}

// attach connects the event callbacks translating X events on h.
func (b *LinuxBackend) attach(h Handle) {
	xu := b.conn.XUtil
	win := xproto.Window(h)

	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window != win {
			return
		}
		b.deliver(NewResize(h, geom.R(int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height))))
	}).Connect(xu, win)

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		b.deliver(NewPaint(h, geom.R(int(ev.X), int(ev.Y), int(ev.Width), int(ev.Height))))
	}).Connect(xu, win)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		pos := geom.Point{X: int(ev.EventX), Y: int(ev.EventY)}
		mods := modifiers(ev.State)
		if orientation, delta, ok := wheel(ev.Detail); ok {
			b.deliver(NewScroll(h, orientation, delta, mods, pos))
			return
		}
		b.deliver(NewMouse(h, MsgMouseDown, int(ev.Detail), mods, pos))
	}).Connect(xu, win)

	xevent.ButtonReleaseFun(func(_ *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		if _, _, ok := wheel(ev.Detail); ok {
			return
		}
		b.deliver(NewMouse(h, MsgMouseUp, int(ev.Detail), modifiers(ev.State), geom.Point{X: int(ev.EventX), Y: int(ev.EventY)}))
	}).Connect(xu, win)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		b.deliver(NewMouse(h, MsgMouseMove, 0, modifiers(ev.State), geom.Point{X: int(ev.EventX), Y: int(ev.EventY)}))
	}).Connect(xu, win)

	xevent.EnterNotifyFun(func(_ *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		b.deliver(NewSetCursor(h, HitClient, geom.Point{X: int(ev.EventX), Y: int(ev.EventY)}))
	}).Connect(xu, win)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		sym := keybind.KeysymGet(xu, ev.Detail, 0)
		b.deliver(NewKey(h, MsgKeyDown, uint32(ev.Detail), uint32(sym), modifiers(ev.State)))
	}).Connect(xu, win)

	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		sym := keybind.KeysymGet(xu, ev.Detail, 0)
		b.deliver(NewKey(h, MsgKeyUp, uint32(ev.Detail), uint32(sym), modifiers(ev.State)))
	}).Connect(xu, win)

	xevent.FocusInFun(func(_ *xgbutil.XUtil, ev xevent.FocusInEvent) {
		if ev.Detail == xproto.NotifyDetailPointer {
			return
		}
		b.deliver(NewFocus(h, true))
	}).Connect(xu, win)

	xevent.FocusOutFun(func(_ *xgbutil.XUtil, ev xevent.FocusOutEvent) {
		if ev.Detail == xproto.NotifyDetailPointer {
			return
		}
		b.deliver(NewFocus(h, false))
	}).Connect(xu, win)

	xevent.ClientMessageFun(func(_ *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Format != 32 {
			return
		}
		data := ev.Data.Data32
		switch ev.Type {
		case b.msgType:
			b.deliver(Message{
				Handle: h,
				ID:     MessageID(data[0]),
				W:      uint64(data[1])<<32 | uint64(data[2]),
				L:      uint64(data[3])<<32 | uint64(data[4]),
			})
		case b.protocols:
			if xproto.Atom(data[0]) == b.deleteWin && b.isTopLevel(h) {
				b.deliver(NewClose(h))
			}
		}
	}).Connect(xu, win)
}

// modifiers keeps the X modifier bits the toolkit reports. The platform
// Mod* constants share the X bit positions.
func modifiers(state uint16) uint32 {
	return uint32(state) & (ModShift | ModLock | ModControl | ModAlt | ModSuper)
}

// wheel maps X buttons 4 to 7 to scroll steps. Up and left are positive.
func wheel(button xproto.Button) (orientation, delta int, ok bool) {
	switch button {
	case 4:
		return ScrollVertical, 1, true
	case 5:
		return ScrollVertical, -1, true
	case 6:
		return ScrollHorizontal, 1, true
	case 7:
		return ScrollHorizontal, -1, true
	}
	return 0, 0, false
}

type linuxBatch struct {
	backend *LinuxBackend
	moves   []x11.Configure
	ended   bool
}

func (m *linuxBatch) Move(h Handle, bounds geom.Rect) error {
	if m.ended {
		return fmt.Errorf("deferred move already ended")
	}
	b := m.backend
	b.mu.Lock()
	w, ok := b.windows[h]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("window %d does not exist", h)
	}
	m.moves = append(m.moves, x11.Configure{Window: xproto.Window(h), Bounds: bounds, TopLevel: w.parent == 0})
	return nil
}

func (m *linuxBatch) End() error {
	if m.ended {
		return fmt.Errorf("deferred move already ended")
	}
	m.ended = true
	if len(m.moves) == 0 {
		return nil
	}
	return m.backend.conn.ConfigureBatch(m.moves)
}
