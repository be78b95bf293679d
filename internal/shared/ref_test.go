package shared

import (
	"errors"
	"testing"
)

type tracked struct {
	destroyed int
}

func (t *tracked) Destroy() { t.destroyed++ }

func TestReleaseDestroysOnLastReference(t *testing.T) {
	v := &tracked{}
	a := New(v)
	b := a.Clone()

	if a.Refs() != 2 {
		t.Fatalf("expected 2 refs, got %d", a.Refs())
	}

	a.Release()
	if v.destroyed != 0 {
		t.Fatalf("destroyed while a reference is still held")
	}
	if b.Get() != v {
		t.Fatalf("remaining reference does not return the value")
	}

	b.Release()
	if v.destroyed != 1 {
		t.Fatalf("expected exactly one destroy, got %d", v.destroyed)
	}
}

func expectOwnershipPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidOwnership) {
			t.Fatalf("expected ErrInvalidOwnership panic, got %v", r)
		}
	}()
	fn()
}

func TestZeroRefPanics(t *testing.T) {
	var r Ref[*tracked]
	expectOwnershipPanic(t, func() { r.Get() })
}

func TestDoubleReleasePanics(t *testing.T) {
	r := New(&tracked{})
	r.Release()
	expectOwnershipPanic(t, func() { r.Release() })
	expectOwnershipPanic(t, func() { r.Get() })
}

func TestSame(t *testing.T) {
	a := New(1)
	b := a.Clone()
	c := New(1)
	if !a.Same(b) {
		t.Fatalf("clone should share the value")
	}
	if a.Same(c) {
		t.Fatalf("separate New calls must not be the same")
	}
}
