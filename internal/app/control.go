package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/1broseidon/wintk/internal/ipc"
	"github.com/1broseidon/wintk/internal/platform"
)

type controlRequest struct {
	req   *ipc.Request
	reply chan *ipc.Response
}

// Control answers a control-socket request. It may be called from any
// goroutine; the request is handled on the UI goroutine and Control waits
// for the answer or for ctx.
func (w *Window) Control(ctx context.Context, req *ipc.Request) *ipc.Response {
	cr := &controlRequest{req: req, reply: make(chan *ipc.Response, 1)}
	if err := w.ctx.Enqueue(w, w.controlID, cr); err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	select {
	case resp := <-cr.reply:
		return resp
	case <-ctx.Done():
		return ipc.NewErrorResponse(ctx.Err().Error())
	}
}

func (w *Window) handleControl(req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		b := w.Bounds()
		return okResponse(ipc.StatusData{
			Preset:        w.preset,
			Cells:         len(w.cells),
			Presets:       w.cfg.PresetNames(),
			Width:         b.Width,
			Height:        b.Height,
			UptimeSeconds: int64(time.Since(w.started).Seconds()),
		})

	case ipc.CommandPreset:
		var p ipc.PresetPayload
		if err := req.DecodePayload(&p); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		name := p.Name
		if name == "" {
			name = w.nextPreset()
		}
		if err := w.ApplyPreset(name); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return okResponse(ipc.PresetPayload{Name: w.preset})

	case ipc.CommandCommand:
		var p ipc.CommandPayload
		if err := req.DecodePayload(&p); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		if p.ID <= 0 {
			return ipc.NewErrorResponse(fmt.Sprintf("invalid command id %d", p.ID))
		}
		if err := w.ctx.Backend().Post(platform.NewCommand(w.Handle(), p.ID, 0, 0)); err != nil {
			return ipc.NewErrorResponse(err.Error())
		}
		return okResponse(nil)
	}
	return ipc.NewErrorResponse(fmt.Sprintf("unknown command %q", req.Command))
}

// nextPreset returns the preset after the active one in name order.
func (w *Window) nextPreset() string {
	names := w.cfg.PresetNames()
	if len(names) == 0 {
		return w.preset
	}
	return names[(slices.Index(names, w.preset)+1)%len(names)]
}

func okResponse(data any) *ipc.Response {
	resp, err := ipc.NewOKResponse(data)
	if err != nil {
		return ipc.NewErrorResponse(err.Error())
	}
	return resp
}
