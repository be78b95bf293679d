//go:build linux

package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/wintk/internal/app"
	"github.com/1broseidon/wintk/internal/config"
	"github.com/1broseidon/wintk/internal/dispatch"
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/hotkeys"
	"github.com/1broseidon/wintk/internal/ipc"
	"github.com/1broseidon/wintk/internal/layout"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/runtimepath"
	"github.com/1broseidon/wintk/internal/widget"
)

func runDemo(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wintk/config.yaml)")
	watch := fs.Bool("watch", true, "Apply config changes to the running window")
	socket := fs.String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/wintk.sock)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	logger, closer, err := cfg.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	backend, err := platform.NewLinuxBackendFromDisplay(logger)
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer backend.Disconnect()

	size := geom.Size{Width: cfg.Window.Width, Height: cfg.Window.Height}
	bounds := geom.Rect{Width: size.Width, Height: size.Height}
	if display, err := backend.ActiveDisplay(); err != nil {
		logger.Warn("no active display, placing window at the origin", "error", err)
	} else {
		bounds = layout.ApplyRegion(display.Usable, cfg.Region(), size)
		logger.Debug("placing window", "display", display.Name, "bounds", bounds)
	}

	if *socket == "" {
		if *socket, err = runtimepath.SocketPath(); err != nil {
			logger.Error("failed to resolve control socket", "error", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)
	// ready is closed once window is set, or left nil when creation failed.
	var window *app.Window
	ready := make(chan struct{})

	// UI goroutine: owns the widget context and runs the X event loop, which
	// is where every backend callback is delivered.
	g.Go(func() error {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer stop()

		uictx := widget.NewContext(backend, widget.WithLogger(logger), widget.WithThreadCheck(cfg.Debug.ThreadCheck))
		uictx.BindToCurrentGoroutine()
		engine := dispatch.New(uictx, dispatch.WithLogger(logger))
		backend.SetSink(engine.Dispatch)

		win, err := app.New(uictx, cfg, bounds, backend.Quit)
		if err != nil {
			close(ready)
			return fmt.Errorf("failed to create window: %w", err)
		}
		window = win
		if err := backend.SetTitle(win.Handle(), cfg.Window.Title); err != nil {
			logger.Warn("failed to set window title", "error", err)
		}

		if len(cfg.Hotkeys) > 0 {
			hk, err := hotkeys.NewHandler(uictx)
			if err != nil {
				logger.Warn("hotkeys disabled", "error", err)
			} else {
				defer hk.Detach()
				if err := hk.BindAll(cfg.Hotkeys, win); err != nil {
					logger.Warn("hotkey registration failed", "error", err)
				}
				logger.Info("hotkeys registered", "count", len(hk.Bound()))
			}
		}

		close(ready)
		logger.Info("wintk demo started", "preset", win.Preset(), "bounds", bounds)
		backend.EventLoop()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		backend.Quit()
		return nil
	})

	reload := func(next *config.LoadResult, err error) error {
		if err != nil {
			return err
		}
		return window.Reload(next.Config)
	}

	if *watch && res.File != "" {
		g.Go(func() error {
			if <-ready; window == nil {
				return nil
			}
			return config.Watch(ctx, res.File, func(next *config.LoadResult, err error) {
				if err := reload(next, err); err != nil {
					logger.Warn("config reload failed", "error", err)
				}
			})
		})
	}

	g.Go(func() error {
		if <-ready; window == nil {
			return nil
		}
		srv := ipc.NewServer(*socket, func(ctx context.Context, req *ipc.Request) *ipc.Response {
			if req.Command != ipc.CommandReload {
				return window.Control(ctx, req)
			}
			if err := reload(loadConfig(*path)); err != nil {
				return ipc.NewErrorResponse(err.Error())
			}
			resp, _ := ipc.NewOKResponse(nil)
			return resp
		}, logger)
		return srv.Serve(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("wintk demo failed", "error", err)
		return 1
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	backend, err := platform.NewLinuxBackendFromDisplay(nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer backend.Disconnect()

	displays, err := backend.Displays()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	active, activeErr := backend.ActiveDisplay()

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(displays); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, d := range displays {
		marker := " "
		if activeErr == nil && d.ID == active.ID {
			marker = "*"
		}
		fmt.Printf("%s %d %-10s bounds=%d,%d %dx%d usable=%d,%d %dx%d\n", marker, d.ID, d.Name,
			d.Bounds.X, d.Bounds.Y, d.Bounds.Width, d.Bounds.Height,
			d.Usable.X, d.Usable.Y, d.Usable.Width, d.Usable.Height)
	}
	return 0
}
