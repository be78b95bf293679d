package platform

import (
	"testing"

	"github.com/1broseidon/wintk/internal/geom"
)

func TestPackRoundTripsNegativeValues(t *testing.T) {
	w := Pack(-5, 1200)
	hi, lo := Unpack(w)
	if hi != -5 || lo != 1200 {
		t.Fatalf("Unpack(Pack(-5,1200)) = %d,%d", hi, lo)
	}
}

func TestMemoryCreateRequiresRegisteredClass(t *testing.T) {
	b := NewMemoryBackend()
	if _, err := b.CreateWindow(0, "panel", geom.R(0, 0, 10, 10)); err == nil {
		t.Fatalf("expected error for unregistered class")
	}
	if err := b.RegisterClass("panel"); err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	if _, err := b.CreateWindow(0, "panel", geom.R(0, 0, 10, 10)); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
}

func TestMemoryChildCreationNotifiesParent(t *testing.T) {
	b := NewMemoryBackend()
	_ = b.RegisterClass("panel")
	parent, _ := b.CreateWindow(0, "panel", geom.R(0, 0, 100, 100))
	child, _ := b.CreateWindow(parent, "panel", geom.R(0, 0, 10, 10))

	msg, ok := b.Next()
	if !ok {
		t.Fatalf("expected a queued message")
	}
	if msg.Handle != parent || msg.ID != MsgChildAdded || Handle(msg.W) != child {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestMemoryRegisterMessageIsIdempotent(t *testing.T) {
	b := NewMemoryBackend()
	a1, _ := b.RegisterMessage("progress")
	a2, _ := b.RegisterMessage("progress")
	other, _ := b.RegisterMessage("done")
	if a1 != a2 {
		t.Fatalf("same name produced %d and %d", a1, a2)
	}
	if a1 == other {
		t.Fatalf("different names share id %d", a1)
	}
	if !a1.Registered() {
		t.Fatalf("registered id %d below FirstRegistered", a1)
	}
}

func TestMemoryDeferredMoveAppliesOnEnd(t *testing.T) {
	b := NewMemoryBackend()
	_ = b.RegisterClass("panel")
	h, _ := b.CreateWindow(0, "panel", geom.R(0, 0, 10, 10))

	dm, _ := b.BeginDeferredMove(1)
	if err := dm.Move(h, geom.R(5, 5, 20, 10)); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if r, _ := b.Bounds(h); r != geom.R(0, 0, 10, 10) {
		t.Fatalf("bounds changed before End: %v", r)
	}
	if err := dm.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if r, _ := b.Bounds(h); r != geom.R(5, 5, 20, 10) {
		t.Fatalf("bounds not applied: %v", r)
	}
	if len(b.Batches()) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(b.Batches()))
	}

	msg, ok := b.Next()
	if !ok || msg.ID != MsgResize {
		t.Fatalf("expected resize message, got %+v", msg)
	}
	if w, hgt := Unpack(msg.W); w != 20 || hgt != 10 {
		t.Fatalf("resize carries %dx%d", w, hgt)
	}
}
