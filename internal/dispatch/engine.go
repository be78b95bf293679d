// Package dispatch turns native messages into typed widget events.
//
// For each message the engine resolves the target widget, offers the raw
// message to PreTranslateMessage, decodes it into an event, invokes the
// widget's handler and, for command, notify and draw-item notifications,
// reflects the call to the child control that generated it. Whatever a
// handler does, Dispatch returns normally: panics are recovered and handed
// to the exception hook.
package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/widget"
)

// ExceptionHook receives every panic recovered at the dispatch boundary.
type ExceptionHook func(*HandlerError)

// Engine dispatches messages for the widgets of one Context.
type Engine struct {
	ctx    *widget.Context
	logger *slog.Logger
	hook   ExceptionHook
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger overrides the logger, which defaults to the context logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExceptionHook installs the hook called for recovered panics. The
// default hook logs the panic and its stack at error level.
func WithExceptionHook(h ExceptionHook) Option {
	return func(e *Engine) { e.hook = h }
}

// New creates an engine for ctx.
func New(ctx *widget.Context, opts ...Option) *Engine {
	e := &Engine{ctx: ctx, logger: ctx.Logger()}
	for _, opt := range opts {
		opt(e)
	}
	if e.hook == nil {
		e.hook = e.logPanic
	}
	return e
}

// Context returns the context the engine dispatches for.
func (e *Engine) Context() *widget.Context { return e.ctx }

// Resolve finds the live widget registered for h.
func (e *Engine) Resolve(h platform.Handle) (*widget.Base, error) {
	b, ok := e.ctx.Lookup(h)
	if !ok || !b.Alive() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return b, nil
}

// Dispatch delivers msg to its widget. handled is true when a handler
// consumed the event or PreTranslateMessage took the message; result is then
// the event's Result. Otherwise the backend's default processing runs and
// its result is returned.
func (e *Engine) Dispatch(msg platform.Message) (handled bool, result platform.Result) {
	e.ctx.AssertUIThread()

	b, err := e.Resolve(msg.Handle)
	if err != nil {
		// The target may have been destroyed after Enqueue; its payload
		// would otherwise stay in the context forever.
		msg = e.ctx.AttachPayload(msg)
		e.logger.Debug("message for unknown window", "handle", msg.Handle, "message", msg.ID)
		return false, e.defaultProc(msg)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e.report(&HandlerError{Handle: msg.Handle, Message: msg.ID, Value: r, Stack: captureStack()})
		handled, result = false, e.safeDefaultProc(msg)
	}()
	return e.dispatch(b, msg)
}

// Source is a pull-based message queue.
type Source interface {
	Next() (platform.Message, bool)
}

// Pump dispatches queued messages until src is empty and returns how many
// were dispatched. Messages queued by handlers during the pump are
// dispatched too.
func (e *Engine) Pump(src Source) int {
	n := 0
	for {
		msg, ok := src.Next()
		if !ok {
			return n
		}
		e.Dispatch(msg)
		n++
	}
}

func (e *Engine) dispatch(b *widget.Base, msg platform.Message) (bool, platform.Result) {
	msg = e.ctx.AttachPayload(msg)
	w := b.Widget()
	if pt, ok := w.(widget.PreTranslator); ok && pt.PreTranslateMessage(msg) {
		return true, 0
	}

	ev := e.deliver(b, w, msg)
	if ev == nil || !ev.Consumed() {
		return false, e.defaultProc(msg)
	}
	return true, ev.Result
}

func (e *Engine) defaultProc(msg platform.Message) platform.Result {
	return e.ctx.Backend().DefaultProc(msg)
}

// report hands herr to the exception hook. A panicking hook is logged and
// swallowed so nothing unwinds past Dispatch.
func (e *Engine) report(herr *HandlerError) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("exception hook panicked", "handle", herr.Handle, "message", herr.Message, "panic", r)
		}
	}()
	e.hook(herr)
}

func (e *Engine) safeDefaultProc(msg platform.Message) (result platform.Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("default processing panicked", "handle", msg.Handle, "message", msg.ID, "panic", r)
			result = 0
		}
	}()
	return e.defaultProc(msg)
}

func (e *Engine) logPanic(herr *HandlerError) {
	e.logger.Error("widget handler panicked",
		"handle", herr.Handle,
		"message", herr.Message,
		"panic", herr.Value,
		"stack", herr.Stack,
	)
}
