package widget

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/1broseidon/wintk/internal/platform"
)

// Class is a registered window class. It can only be obtained from
// Context.RegisterClass, which makes registration a precondition of Create.
type Class struct {
	name string
	ctx  *Context
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

type reflectKey struct {
	parent    platform.Handle
	controlID int
}

// Context owns everything a UI goroutine needs: the window-system backend,
// the handle registry, the reflection table and the cross-thread payload
// table. All methods except Enqueue, RegisterMessage and Logger must be
// called from the goroutine that owns the context.
type Context struct {
	backend     platform.Backend
	logger      *slog.Logger
	threadCheck bool
	owner       int64

	classes  map[string]*Class
	registry map[platform.Handle]*Base
	reflect  map[reflectKey]*Base

	mu        sync.Mutex
	payloads  map[uint64]any
	nextToken uint64
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger used for layout and lifecycle diagnostics.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithThreadCheck makes UI-only methods panic when called from a goroutine
// other than the owner.
func WithThreadCheck(enabled bool) ContextOption {
	return func(c *Context) { c.threadCheck = enabled }
}

// NewContext creates a context owned by the calling goroutine.
func NewContext(backend platform.Backend, opts ...ContextOption) *Context {
	c := &Context{
		backend:  backend,
		logger:   slog.Default(),
		owner:    goroutineID(),
		classes:  make(map[string]*Class),
		registry: make(map[platform.Handle]*Base),
		reflect:  make(map[reflectKey]*Base),
		payloads: make(map[uint64]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Backend returns the window-system backend.
func (c *Context) Backend() platform.Backend { return c.backend }

// Logger returns the context logger.
func (c *Context) Logger() *slog.Logger { return c.logger }

// BindToCurrentGoroutine makes the caller the owning UI goroutine. Call it
// at the top of the event loop when the loop runs on a different goroutine
// than the one that built the context.
func (c *Context) BindToCurrentGoroutine() {
	c.owner = goroutineID()
}

// AssertUIThread panics when thread checking is enabled and the caller is
// not the owning goroutine.
func (c *Context) AssertUIThread() {
	if !c.threadCheck {
		return
	}
	if id := goroutineID(); id != c.owner {
		panic(fmt.Sprintf("widget: UI call from goroutine %d, context owned by goroutine %d", id, c.owner))
	}
}

// RegisterClass registers a window class with the backend. Registering the
// same name again returns the existing class.
func (c *Context) RegisterClass(name string) (*Class, error) {
	c.AssertUIThread()
	if cls, ok := c.classes[name]; ok {
		return cls, nil
	}
	if err := c.backend.RegisterClass(name); err != nil {
		return nil, fmt.Errorf("failed to register class %q: %w", name, err)
	}
	cls := &Class{name: name, ctx: c}
	c.classes[name] = cls
	return cls, nil
}

// Lookup resolves a native handle to its widget node.
func (c *Context) Lookup(h platform.Handle) (*Base, bool) {
	b, ok := c.registry[h]
	return b, ok
}

// LookupChild resolves a child of parent by control id.
func (c *Context) LookupChild(parent platform.Handle, controlID int) (*Base, bool) {
	b, ok := c.reflect[reflectKey{parent: parent, controlID: controlID}]
	return b, ok
}

// Len returns the number of live widgets.
func (c *Context) Len() int { return len(c.registry) }

// RegisterMessage returns the process-wide id for a named cross-thread
// message. Safe for concurrent use when the backend's RegisterMessage is.
func (c *Context) RegisterMessage(name string) (platform.MessageID, error) {
	id, err := c.backend.RegisterMessage(name)
	if err != nil {
		return 0, fmt.Errorf("failed to register message %q: %w", name, err)
	}
	return id, nil
}

// Enqueue delivers payload to target on the UI goroutine. It may be called
// from any goroutine. The receiver sees the message in PreTranslateMessage
// with Payload set; it is responsible for synchronizing access to anything
// the payload shares with the sender.
func (c *Context) Enqueue(target Widget, id platform.MessageID, payload any) error {
	if target == nil {
		return fmt.Errorf("enqueue: target is nil")
	}
	if !id.Registered() {
		return fmt.Errorf("enqueue: message id %d was not registered", id)
	}
	h := target.Wrappee().handle
	if h == 0 {
		return fmt.Errorf("enqueue: target has no native window")
	}

	c.mu.Lock()
	c.nextToken++
	token := c.nextToken
	c.payloads[token] = payload
	c.mu.Unlock()

	if err := c.backend.Post(platform.Message{Handle: h, ID: id, W: token}); err != nil {
		c.mu.Lock()
		delete(c.payloads, token)
		c.mu.Unlock()
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// AttachPayload moves the payload stored by Enqueue into msg. Messages that
// did not come from Enqueue are returned unchanged.
func (c *Context) AttachPayload(msg platform.Message) platform.Message {
	if !msg.ID.Registered() || msg.W == 0 {
		return msg
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.payloads[msg.W]; ok {
		msg.Payload = p
		delete(c.payloads, msg.W)
	}
	return msg
}

// PendingPayloads reports how many enqueued payloads have not yet been
// attached to a dispatched message.
func (c *Context) PendingPayloads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

// goroutineID parses the current goroutine id from the runtime stack header
// ("goroutine 42 [running]:"). It is only used for thread assertions.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	if i := strings.IndexByte(s, ' '); i > 0 {
		if id, err := strconv.ParseInt(s[:i], 10, 64); err == nil {
			return id
		}
	}
	return 0
}
