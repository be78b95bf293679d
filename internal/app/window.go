// Package app builds the demo window: a top-level widget whose cells are
// arranged by a configured Bix preset. Commands, configuration reloads and
// control-socket requests all reach it through the message pipeline.
package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/wintk/internal/config"
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/widget"
)

const (
	ClassWindow    = "wintk.window"
	ClassCell      = "wintk.cell"
	MessageReload  = "wintk.config-reload"
	MessageControl = "wintk.control"
)

// Command ids understood by Window.OnCommand. Hotkeys in the configuration
// map key sequences to these.
const (
	CommandNextPreset = 1
	CommandQuit       = 2
)

// Window is the demo's top-level widget.
type Window struct {
	widget.Base

	ctx       *widget.Context
	cellClass *widget.Class
	reloadID  platform.MessageID
	controlID platform.MessageID
	quit      func()
	logger    *slog.Logger
	started   time.Time

	cfg    *config.Config
	preset string
	cells  []*Cell
}

// Cell is one placeholder of the active preset. Clicking it sends a command
// to the window, which is reflected back to the cell.
type Cell struct {
	widget.Base
	Clicks int
}

func (c *Cell) OnMouseDown(ev *widget.MouseEvent) {
	parent := c.Parent()
	if parent != nil {
		msg := platform.NewCommand(parent.Handle(), c.ControlID(), 0, c.Handle())
		if err := c.Context().Backend().Post(msg); err != nil {
			c.Context().Logger().Warn("cell click not delivered", "cell", c.Name(), "error", err)
		}
	}
	c.Base.OnMouseDown(ev)
}

func (c *Cell) OnReflectedCommand(ev *widget.CommandEvent) {
	c.Clicks++
	c.Context().Logger().Info("cell clicked", "cell", c.Name(), "clicks", c.Clicks)
	ev.Consume()
	c.Base.OnReflectedCommand(ev)
}

// New creates the window at bounds with the configured preset. quit is
// called on CommandQuit and when the window is closed; it may be nil.
func New(ctx *widget.Context, cfg *config.Config, bounds geom.Rect, quit func()) (*Window, error) {
	winClass, err := ctx.RegisterClass(ClassWindow)
	if err != nil {
		return nil, err
	}
	cellClass, err := ctx.RegisterClass(ClassCell)
	if err != nil {
		return nil, err
	}
	reloadID, err := ctx.RegisterMessage(MessageReload)
	if err != nil {
		return nil, err
	}
	controlID, err := ctx.RegisterMessage(MessageControl)
	if err != nil {
		return nil, err
	}
	if quit == nil {
		quit = func() {}
	}

	w := &Window{
		ctx:       ctx,
		cellClass: cellClass,
		reloadID:  reloadID,
		controlID: controlID,
		quit:      quit,
		logger:    ctx.Logger(),
		started:   time.Now(),
		cfg:       cfg,
	}
	if err := widget.Create(ctx, winClass, w, nil, widget.WithBounds(bounds), widget.WithName(cfg.Window.Title)); err != nil {
		return nil, err
	}
	if err := w.ApplyPreset(cfg.Window.Preset); err != nil {
		_ = widget.Destroy(w)
		return nil, err
	}
	return w, nil
}

// Preset returns the name of the active preset.
func (w *Window) Preset() string { return w.preset }

// Cells returns the cells of the active preset in placeholder order.
func (w *Window) Cells() []*Cell { return w.cells }

// ApplyPreset replaces the cells with one per placeholder of the named
// preset and lays them out. A preset that does not parse leaves the current
// cells and layout untouched.
func (w *Window) ApplyPreset(name string) error {
	p, err := w.cfg.Preset(name)
	if err != nil {
		return err
	}
	// Control ids are unique per parent, so the new cells cannot coexist
	// with the old ones. Check the grammar against throwaway leaves first.
	if _, _, err := p.Build(w.cfg.ParseOptions()); err != nil {
		return fmt.Errorf("preset %q: %w", name, err)
	}

	w.destroyCells(w.cells)
	w.cells = nil

	cells := make([]*Cell, 0, len(p.Sizes))
	leaves := make([]widget.Widget, 0, len(p.Sizes))
	for i, size := range p.Sizes {
		c := &Cell{}
		err := widget.Create(w.ctx, w.cellClass, c, w,
			widget.WithControlID(i+1),
			widget.WithPreferredSize(size),
			widget.WithName(fmt.Sprintf("%s.%d", name, i+1)),
		)
		if err != nil {
			w.destroyCells(cells)
			return err
		}
		cells = append(cells, c)
		leaves = append(leaves, c)
	}

	bix, err := layout.ParseBix(p.Grammar, w.cfg.ParseOptions(), leaves...)
	if err != nil {
		w.destroyCells(cells)
		return fmt.Errorf("preset %q: %w", name, err)
	}
	w.cells = cells
	layout.Install(w, bix)
	w.preset = name
	w.logger.Info("preset applied", "preset", name, "cells", len(w.cells), "bix", bix.String())
	return w.RequestLayout()
}

func (w *Window) destroyCells(cells []*Cell) {
	for _, c := range cells {
		if err := widget.Destroy(c); err != nil {
			w.logger.Warn("failed to destroy cell", "cell", c.Name(), "error", err)
		}
	}
}

// Reload hands cfg to the window from any goroutine. It is applied on the
// UI goroutine.
func (w *Window) Reload(cfg *config.Config) error {
	return w.ctx.Enqueue(w, w.reloadID, cfg)
}

func (w *Window) applyConfig(cfg *config.Config) {
	w.cfg = cfg
	name := w.preset
	if _, ok := cfg.Presets[name]; !ok {
		name = cfg.Window.Preset
	}
	if err := w.ApplyPreset(name); err != nil {
		w.logger.Error("failed to apply reloaded configuration", "error", err)
	}
}

// PreTranslateMessage takes configuration reloads and control requests
// before decoding.
func (w *Window) PreTranslateMessage(msg platform.Message) bool {
	switch msg.ID {
	case w.reloadID:
		cfg, ok := msg.Payload.(*config.Config)
		if !ok {
			w.logger.Warn("reload message without configuration", "payload", fmt.Sprintf("%T", msg.Payload))
			return true
		}
		w.applyConfig(cfg)
		return true
	case w.controlID:
		cr, ok := msg.Payload.(*controlRequest)
		if !ok {
			w.logger.Warn("control message without request", "payload", fmt.Sprintf("%T", msg.Payload))
			return true
		}
		cr.reply <- w.handleControl(cr.req)
		return true
	}
	return false
}

func (w *Window) OnCommand(ev *widget.CommandEvent) {
	// Clicks from cells that are already gone come back here; their ids
	// overlap the command ids.
	if ev.Child != 0 {
		w.logger.Debug("command from a stale cell", "control", ev.ControlID, "child", ev.Child)
		w.Base.OnCommand(ev)
		return
	}
	switch ev.ControlID {
	case CommandNextPreset:
		next := w.nextPreset()
		if err := w.ApplyPreset(next); err != nil {
			w.logger.Error("failed to switch preset", "preset", next, "error", err)
		}
		ev.Consume()
	case CommandQuit:
		w.quit()
		ev.Consume()
	default:
		w.logger.Debug("unhandled command", "command", ev.ControlID)
	}
	w.Base.OnCommand(ev)
}

func (w *Window) OnClose(ev *widget.CloseEvent) {
	w.quit()
	w.Base.OnClose(ev)
}

func (w *Window) OnLayout(ev *widget.LayoutEvent) {
	w.logger.Debug("window laid out", "bounds", ev.Bounds)
	w.Base.OnLayout(ev)
}
