// Package hotkeys binds global key sequences to command messages.
package hotkeys

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/widget"
)

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts. A triggered shortcut posts a
// MsgCommand (no child) to its target, so the target's OnCommand runs on the
// UI goroutine like any menu command.
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	backend platform.Backend
	logger  *slog.Logger

	mu    sync.Mutex
	bound map[string]int
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler for ctx. The context's backend must
// expose X11 internals.
func NewHandler(ctx *widget.Context) (*Handler, error) {
	accessor, ok := ctx.Backend().(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("hotkeys: backend %T does not support global key grabs", ctx.Backend())
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		xevent.IgnoreMods = ignoreMasks(
			modMaskForKeysym(xu, "Num_Lock"),
			modMaskForKeysym(xu, "Scroll_Lock"),
		)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		backend: ctx.Backend(),
		logger:  ctx.Logger(),
		bound:   make(map[string]int),
	}, nil
}

// Bind grabs keySequence (xgbutil syntax, e.g. "Mod4-Shift-t") and posts
// command commandID to target whenever it is pressed.
func (h *Handler) Bind(keySequence string, target widget.Widget, commandID int) error {
	handle := target.Wrappee().Handle()
	if handle == 0 {
		return fmt.Errorf("hotkeys: target for %q has no native window", keySequence)
	}

	err := h.RegisterFunc(keySequence, func() {
		h.logger.Debug("hotkey triggered", "keys", keySequence, "command", commandID)
		if err := h.backend.Post(platform.NewCommand(handle, commandID, 0, 0)); err != nil {
			h.logger.Warn("hotkey command not delivered", "keys", keySequence, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("hotkeys: failed to bind %q: %w", keySequence, err)
	}

	h.mu.Lock()
	h.bound[keySequence] = commandID
	h.mu.Unlock()
	return nil
}

// BindAll binds every sequence -> command id pair, stopping at the first failure.
func (h *Handler) BindAll(bindings map[string]int, target widget.Widget) error {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := h.Bind(k, target, bindings[k]); err != nil {
			return err
		}
	}
	return nil
}

// Bound returns the registered sequences and their command ids.
func (h *Handler) Bound() map[string]int {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]int, len(h.bound))
	for k, v := range h.bound {
		out[k] = v
	}
	return out
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Detach releases every grab on the root window.
func (h *Handler) Detach() {
	keybind.Detach(h.xu, h.root)
	h.mu.Lock()
	h.bound = make(map[string]int)
	h.mu.Unlock()
}

// ignoreMasks returns every combination of CapsLock, NumLock and ScrollLock
// (including none), so a hotkey fires regardless of lock state.
func ignoreMasks(numLock, scrollLock uint16) []uint16 {
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := make([]uint16, 0, 1<<len(base))
	for subset := 0; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
