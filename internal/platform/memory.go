package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/wintk/internal/geom"
)

// MemoryBackend is an in-process window system. It keeps window geometry in
// maps and queues messages instead of talking to a display server. Headless
// tools and tests use it.
type MemoryBackend struct {
	mu         sync.Mutex
	nextHandle Handle
	nextAtom   MessageID
	classes    map[string]struct{}
	windows    map[Handle]*memoryWindow
	atoms      map[string]MessageID
	queue      []Message
	batches    [][]Move
}

type memoryWindow struct {
	parent Handle
	class  string
	bounds geom.Rect
}

// Move is one recorded deferred move.
type Move struct {
	Handle Handle
	Bounds geom.Rect
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory window system.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		nextHandle: 0x100,
		nextAtom:   FirstRegistered,
		classes:    make(map[string]struct{}),
		windows:    make(map[Handle]*memoryWindow),
		atoms:      make(map[string]MessageID),
	}
}

func (b *MemoryBackend) RegisterClass(name string) error {
	if name == "" {
		return fmt.Errorf("class name is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.classes[name] = struct{}{}
	return nil
}

func (b *MemoryBackend) CreateWindow(parent Handle, class string, bounds geom.Rect) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.classes[class]; !ok {
		return 0, fmt.Errorf("window class %q is not registered", class)
	}
	if parent != 0 {
		if _, ok := b.windows[parent]; !ok {
			return 0, fmt.Errorf("parent window %d does not exist", parent)
		}
	}

	h := b.nextHandle
	b.nextHandle++
	b.windows[h] = &memoryWindow{parent: parent, class: class, bounds: bounds}
	if parent != 0 {
		b.queue = append(b.queue, Message{Handle: parent, ID: MsgChildAdded, W: uint64(h)})
	}
	return h, nil
}

func (b *MemoryBackend) DestroyWindow(h Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.windows[h]
	if !ok {
		return fmt.Errorf("window %d does not exist", h)
	}
	delete(b.windows, h)
	if w.parent != 0 {
		if _, ok := b.windows[w.parent]; ok {
			b.queue = append(b.queue, Message{Handle: w.parent, ID: MsgChildRemoved, W: uint64(h)})
		}
	}
	return nil
}

func (b *MemoryBackend) RegisterMessage(name string) (MessageID, error) {
	if name == "" {
		return 0, fmt.Errorf("message name is empty")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if id, ok := b.atoms[name]; ok {
		return id, nil
	}
	id := b.nextAtom
	b.nextAtom++
	b.atoms[name] = id
	return id, nil
}

func (b *MemoryBackend) Post(msg Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.windows[msg.Handle]; !ok {
		return fmt.Errorf("window %d does not exist", msg.Handle)
	}
	b.queue = append(b.queue, msg)
	return nil
}

func (b *MemoryBackend) BeginDeferredMove(count int) (DeferredMove, error) {
	return &memoryBatch{backend: b, moves: make([]Move, 0, count)}, nil
}

func (b *MemoryBackend) DefaultProc(Message) Result {
	return 0
}

// Next pops the oldest queued message.
func (b *MemoryBackend) Next() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.queue) == 0 {
		return Message{}, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	return msg, true
}

// Pending returns the number of queued messages.
func (b *MemoryBackend) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Bounds returns the current geometry of h.
func (b *MemoryBackend) Bounds(h Handle) (geom.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.windows[h]
	if !ok {
		return geom.Rect{}, false
	}
	return w.bounds, true
}

// Batches returns every applied deferred-move batch in order.
func (b *MemoryBackend) Batches() [][]Move {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([][]Move, len(b.batches))
	copy(out, b.batches)
	return out
}

// Resize changes a window's size the way a user dragging its frame would,
// and queues the resulting MsgResize.
func (b *MemoryBackend) Resize(h Handle, size geom.Size) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, ok := b.windows[h]
	if !ok {
		return fmt.Errorf("window %d does not exist", h)
	}
	w.bounds.Width = size.Width
	w.bounds.Height = size.Height
	b.queue = append(b.queue, NewResize(h, w.bounds))
	return nil
}

type memoryBatch struct {
	backend *MemoryBackend
	moves   []Move
	ended   bool
}

func (m *memoryBatch) Move(h Handle, bounds geom.Rect) error {
	if m.ended {
		return fmt.Errorf("deferred move already ended")
	}
	m.moves = append(m.moves, Move{Handle: h, Bounds: bounds})
	return nil
}

func (m *memoryBatch) End() error {
	if m.ended {
		return fmt.Errorf("deferred move already ended")
	}
	m.ended = true

	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, mv := range m.moves {
		if _, ok := b.windows[mv.Handle]; !ok {
			return fmt.Errorf("window %d does not exist", mv.Handle)
		}
	}
	for _, mv := range m.moves {
		w := b.windows[mv.Handle]
		resized := w.bounds.Width != mv.Bounds.Width || w.bounds.Height != mv.Bounds.Height
		w.bounds = mv.Bounds
		if resized {
			b.queue = append(b.queue, NewResize(mv.Handle, mv.Bounds))
		}
	}
	b.batches = append(b.batches, m.moves)
	return nil
}
