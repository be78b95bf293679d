// Package signal provides typed multicast callback lists.
//
// A Signal is exposed as a public field on widgets, one per event kind:
//
//	btn.MouseDown.Connect(func(ev *widget.MouseEvent) { ... })
package signal

// ID identifies a connected slot so it can be disconnected later.
type ID uint64

type slot[T any] struct {
	id ID
	fn func(T)
}

// Signal is a list of slots called in connection order on Emit.
// The zero value is ready to use. A Signal is not safe for concurrent use;
// widgets only touch their signals from the UI goroutine.
type Signal[T any] struct {
	slots  []slot[T]
	nextID ID
}

// Connect adds fn and returns an ID for Disconnect.
func (s *Signal[T]) Connect(fn func(T)) ID {
	if fn == nil {
		return 0
	}
	s.nextID++
	s.slots = append(s.slots, slot[T]{id: s.nextID, fn: fn})
	return s.nextID
}

// Disconnect removes the slot with the given id. It reports whether a slot
// was removed.
func (s *Signal[T]) Disconnect(id ID) bool {
	for i, sl := range s.slots {
		if sl.id == id {
			s.slots = append(s.slots[:i:i], s.slots[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of connected slots.
func (s *Signal[T]) Len() int {
	return len(s.slots)
}

// Emit calls every slot with v. Slots connected or disconnected during Emit
// take effect on the next Emit.
func (s *Signal[T]) Emit(v T) {
	if len(s.slots) == 0 {
		return
	}
	snapshot := s.slots
	for _, sl := range snapshot {
		sl.fn(v)
	}
}

// Clear disconnects all slots.
func (s *Signal[T]) Clear() {
	s.slots = nil
}
