package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/wintk/internal/geom"
)

// Monitor represents a physical display. WorkArea is Bounds minus the
// space reserved by docks and panels.
type Monitor struct {
	ID       int
	Name     string
	Bounds   geom.Rect
	WorkArea geom.Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		bounds := geom.R(int(info.X), int(info.Y), int(info.Width), int(info.Height))
		monitors = append(monitors, Monitor{ID: i, Name: name, Bounds: bounds, WorkArea: bounds})
	}

	struts, ok := c.dockStruts()
	for i := range monitors {
		if ok {
			monitors[i].WorkArea = struts.apply(monitors[i].Bounds)
		} else {
			monitors[i].WorkArea = c.ewmhWorkArea(monitors[i].Bounds)
		}
	}
	return monitors, nil
}

// GetActiveMonitor returns the monitor containing the focused window, falling
// back to the one under the pointer and then the first monitor.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	if activeWin, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && activeWin != 0 {
		if p, ok := c.windowCenter(activeWin); ok {
			if mon := monitorAt(monitors, p); mon != nil {
				return mon, nil
			}
		}
	}

	if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if mon := monitorAt(monitors, geom.Point{X: int(pointer.RootX), Y: int(pointer.RootY)}); mon != nil {
			return mon, nil
		}
	}

	return &monitors[0], nil
}

func monitorAt(monitors []Monitor, p geom.Point) *Monitor {
	for i := range monitors {
		if monitors[i].Bounds.Contains(p) {
			return &monitors[i]
		}
	}
	return nil
}

func (c *Connection) windowCenter(win xproto.Window) (geom.Point, bool) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return geom.Point{}, false
	}
	tr, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Point{}, false
	}
	return geom.Point{X: int(tr.DstX) + int(g.Width)/2, Y: int(tr.DstY) + int(g.Height)/2}, true
}

// ewmhWorkArea intersects bounds with _NET_WORKAREA of the current desktop.
func (c *Connection) ewmhWorkArea(bounds geom.Rect) geom.Rect {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return bounds
	}
	idx := 0
	if cur, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(cur) < len(areas) {
		idx = int(cur)
	}
	wa := areas[idx]
	isect := bounds.Intersect(geom.R(int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height)))
	if isect.Empty() {
		return bounds
	}
	return isect
}

type edge int

const (
	edgeLeft edge = iota
	edgeRight
	edgeTop
	edgeBottom
)

// strut is one dock reservation in root coordinates.
type strut struct {
	edge edge
	rect geom.Rect
}

type strutSet []strut

func (s strutSet) apply(bounds geom.Rect) geom.Rect {
	var left, right, top, bottom int
	for _, st := range s {
		isect := bounds.Intersect(st.rect)
		if isect.Empty() {
			continue
		}
		switch st.edge {
		case edgeLeft:
			left = max(left, isect.Width)
		case edgeRight:
			right = max(right, isect.Width)
		case edgeTop:
			top = max(top, isect.Height)
		case edgeBottom:
			bottom = max(bottom, isect.Height)
		}
	}
	out := geom.R(bounds.X+left, bounds.Y+top, bounds.Width-left-right, bounds.Height-top-bottom)
	out.Width = max(out.Width, 1)
	out.Height = max(out.Height, 1)
	return out
}

// dockStruts collects the strut rectangles of every dock window. It reports
// false when no dock reserves space.
func (c *Connection) dockStruts() (strutSet, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return nil, false
	}
	rw, rh := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, false
	}

	var set strutSet
	for _, win := range clients {
		if !c.isDock(win) {
			continue
		}

		sp, err := ewmh.WmStrutPartialGet(c.XUtil, win)
		if err != nil {
			// Some docks only set _NET_WM_STRUT (no partial ranges).
			s, err := ewmh.WmStrutGet(c.XUtil, win)
			if err != nil {
				continue
			}
			sp = &ewmh.WmStrutPartial{
				Left: s.Left, Right: s.Right, Top: s.Top, Bottom: s.Bottom,
				LeftEndY: uint(rh - 1), RightEndY: uint(rh - 1),
				TopEndX: uint(rw - 1), BottomEndX: uint(rw - 1),
			}
		}

		if sp.Top > 0 {
			set = append(set, strut{edgeTop, geom.R(int(sp.TopStartX), 0, int(sp.TopEndX)-int(sp.TopStartX)+1, int(sp.Top))})
		}
		if sp.Bottom > 0 {
			set = append(set, strut{edgeBottom, geom.R(int(sp.BottomStartX), rh-int(sp.Bottom), int(sp.BottomEndX)-int(sp.BottomStartX)+1, int(sp.Bottom))})
		}
		if sp.Left > 0 {
			set = append(set, strut{edgeLeft, geom.R(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)-int(sp.LeftStartY)+1)})
		}
		if sp.Right > 0 {
			set = append(set, strut{edgeRight, geom.R(rw-int(sp.Right), int(sp.RightStartY), int(sp.Right), int(sp.RightEndY)-int(sp.RightStartY)+1)})
		}
	}
	return set, len(set) > 0
}

func (c *Connection) isDock(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}
