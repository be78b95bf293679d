package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/wintk/internal/geom"
)

// ClientEventMask is selected on every toolkit window. SubstructureNotify
// lets a parent see its children being created and destroyed.
const ClientEventMask = xproto.EventMaskExposure |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskButtonPress |
	xproto.EventMaskButtonRelease |
	xproto.EventMaskPointerMotion |
	xproto.EventMaskKeyPress |
	xproto.EventMaskKeyRelease |
	xproto.EventMaskFocusChange |
	xproto.EventMaskEnterWindow

// WindowClass is the WM_CLASS class part of every top-level window.
const WindowClass = "wintk"

// CreateWindow creates and maps a window. A zero parent creates a top-level
// window, which also gets WM_CLASS set to (instance, WindowClass) and takes
// part in the WM_DELETE_WINDOW protocol.
func (c *Connection) CreateWindow(parent xproto.Window, instance string, bounds geom.Rect) (xproto.Window, error) {
	topLevel := parent == 0
	if topLevel {
		parent = c.Root
	}

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	width, height := clampSize(bounds)
	err = win.CreateChecked(parent, bounds.X, bounds.Y, width, height,
		xproto.CwBackPixel|xproto.CwEventMask,
		0xffffff, ClientEventMask)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if topLevel {
		if err := icccm.WmClassSet(c.XUtil, win.Id, &icccm.WmClass{Instance: instance, Class: WindowClass}); err != nil {
			win.Destroy()
			return 0, fmt.Errorf("failed to set WM_CLASS: %w", err)
		}
		if err := icccm.WmProtocolsSet(c.XUtil, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
			win.Destroy()
			return 0, fmt.Errorf("failed to set WM_PROTOCOLS: %w", err)
		}
	}

	win.Map()
	return win.Id, nil
}

// DestroyWindow destroys win and all of its descendants.
func (c *Connection) DestroyWindow(win xproto.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), win).Check()
}

// SetTitle sets _NET_WM_NAME on a top-level window.
func (c *Connection) SetTitle(win xproto.Window, title string) error {
	return ewmh.WmNameSet(c.XUtil, win, title)
}

// Activate asks the window manager to raise and focus win.
func (c *Connection) Activate(win xproto.Window) error {
	return ewmh.ActiveWindowReq(c.XUtil, win)
}

// Configure is one geometry change in a ConfigureBatch.
type Configure struct {
	Window   xproto.Window
	Bounds   geom.Rect
	TopLevel bool
}

// ConfigureBatch applies every geometry change while holding a server grab,
// so other clients (the compositor included) never observe a partial
// layout. Top-level windows go through the window manager.
func (c *Connection) ConfigureBatch(moves []Configure) error {
	conn := c.XUtil.Conn()
	xproto.GrabServer(conn)

	var errs []error
	for _, mv := range moves {
		if mv.TopLevel {
			if err := c.MoveResizeWindow(mv.Window, mv.Bounds); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		width, height := clampSize(mv.Bounds)
		xproto.ConfigureWindow(conn, mv.Window,
			xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
			[]uint32{uint32(int32(mv.Bounds.X)), uint32(int32(mv.Bounds.Y)), uint32(width), uint32(height)})
	}

	xproto.UngrabServer(conn)
	if err := c.Sync(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MoveResizeWindow moves and resizes a top-level window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, bounds geom.Rect) error {
	// A maximized window ignores move requests. Some windows don't support
	// _NET_WM_STATE, so failures are ignored.
	_ = c.unmaximizeWindow(windowID)

	width, height := clampSize(bounds)

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, bounds.X, bounds.Y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(bounds.X, bounds.Y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// SendClientMessage sends a 32-bit format ClientMessage of type typ to win.
// Up to five data words are carried. Safe for concurrent use.
func (c *Connection) SendClientMessage(win xproto.Window, typ xproto.Atom, data ...uint32) error {
	if len(data) > 5 {
		return fmt.Errorf("client message carries at most 5 words, got %d", len(data))
	}
	words := make([]uint32, 5)
	copy(words, data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(words),
	}
	return xproto.SendEventChecked(c.XUtil.Conn(), false, win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
}

// clampSize keeps dimensions at least 1, the smallest size X accepts.
func clampSize(r geom.Rect) (int, int) {
	return max(r.Width, 1), max(r.Height, 1)
}
