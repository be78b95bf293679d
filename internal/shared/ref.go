// Package shared implements reference-counted owning handles for values that
// are shared between widgets and application code, such as layouts and
// constraints.
package shared

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrInvalidOwnership is the panic value raised when a Ref that was not
// produced by New or Clone is used, or a Ref is used after Release.
var ErrInvalidOwnership = errors.New("shared: value used without an owning reference")

// Destroyer is implemented by values that release resources when their last
// reference goes away.
type Destroyer interface {
	Destroy()
}

type box[T any] struct {
	value T
	refs  atomic.Int32
}

// Ref is one owning reference to a shared value. Every Ref obtained from New
// or Clone must be released exactly once.
type Ref[T any] struct {
	b        *box[T]
	released atomic.Bool
}

// New wraps v in a heap-allocated box and returns the first reference.
func New[T any](v T) *Ref[T] {
	b := &box[T]{value: v}
	b.refs.Store(1)
	return &Ref[T]{b: b}
}

func (r *Ref[T]) check() {
	if r == nil || r.b == nil || r.released.Load() {
		panic(ErrInvalidOwnership)
	}
}

// Get returns the shared value.
func (r *Ref[T]) Get() T {
	r.check()
	return r.b.value
}

// Clone returns an additional reference to the same value.
func (r *Ref[T]) Clone() *Ref[T] {
	r.check()
	r.b.refs.Add(1)
	return &Ref[T]{b: r.b}
}

// Release drops this reference. When it was the last one the value's Destroy
// method runs, if it has one. Releasing twice panics.
func (r *Ref[T]) Release() {
	r.check()
	if !r.released.CompareAndSwap(false, true) {
		panic(ErrInvalidOwnership)
	}
	n := r.b.refs.Add(-1)
	if n < 0 {
		panic(fmt.Errorf("%w: negative reference count", ErrInvalidOwnership))
	}
	if n == 0 {
		if d, ok := any(r.b.value).(Destroyer); ok {
			d.Destroy()
		}
	}
}

// Refs returns the number of live references to the value.
func (r *Ref[T]) Refs() int {
	r.check()
	return int(r.b.refs.Load())
}

// Same reports whether r and o refer to the same value.
func (r *Ref[T]) Same(o *Ref[T]) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.b == o.b
}

// Valid reports whether r can still be used.
func (r *Ref[T]) Valid() bool {
	return r != nil && r.b != nil && !r.released.Load()
}
