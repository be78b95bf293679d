package layout

import (
	"reflect"
	"testing"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/widget"
)

func childList(ws ...*widget.Base) []*widget.Base { return ws }

func TestBoxMeasure(t *testing.T) {
	a, b := leaf(10, 20), leaf(30, 5)
	tests := []struct {
		name string
		box  Box
		want geom.Size
	}{
		{"horizontal", Box{Orientation: Horizontal, Spacing: 4, Border: 1}, geom.Size{Width: 46, Height: 22}},
		{"vertical", Box{Orientation: Vertical, Spacing: 4, Border: 1}, geom.Size{Width: 32, Height: 31}},
		{"homogeneous", Box{Orientation: Horizontal, Homogeneous: true}, geom.Size{Width: 60, Height: 20}},
	}
	for _, tt := range tests {
		if got := tt.box.Measure(nil, childList(a, b), geom.Size{}); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestBoxArrange_ExpandSharesSlack(t *testing.T) {
	a, b, c := leaf(10, 10), leaf(10, 10), leaf(10, 10)
	Constrain(a, BoxConstraint{Expand: true})
	Constrain(c, BoxConstraint{Expand: true})

	got := rects(Box{Orientation: Horizontal}.Arrange(nil, childList(a, b, c), geom.R(0, 0, 41, 8)))
	want := []geom.Rect{geom.R(0, 0, 16, 8), geom.R(16, 0, 10, 8), geom.R(26, 0, 15, 8)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestBoxArrange_Vertical(t *testing.T) {
	a, b := leaf(10, 10), leaf(10, 20)
	box := Box{Orientation: Vertical, Spacing: 2, Border: 3}

	got := rects(box.Arrange(nil, childList(a, b), geom.R(0, 0, 50, 100)))
	want := []geom.Rect{geom.R(3, 3, 44, 10), geom.R(3, 15, 44, 20)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFill(t *testing.T) {
	a, b := leaf(10, 40), leaf(30, 5)
	f := Fill{Border: 2}
	if got := f.Measure(nil, childList(a, b), geom.Size{}); got != (geom.Size{Width: 34, Height: 44}) {
		t.Fatalf("expected 34x44, got %v", got)
	}
	for _, p := range f.Arrange(nil, childList(a, b), geom.R(0, 0, 100, 60)) {
		if p.Rect != geom.R(2, 2, 96, 56) {
			t.Fatalf("expected inset client rect, got %v", p.Rect)
		}
	}
}

func TestNull(t *testing.T) {
	fit := geom.Size{Width: 7, Height: 9}
	if got := (Null{}).Measure(nil, childList(leaf(100, 100)), fit); got != fit {
		t.Fatalf("expected fit hint back, got %v", got)
	}
	if pl := (Null{}).Arrange(nil, childList(leaf(1, 1)), geom.R(0, 0, 10, 10)); len(pl) != 0 {
		t.Fatalf("expected no placements, got %v", pl)
	}
}

func TestAnchorArrange(t *testing.T) {
	ref := geom.Size{Width: 200, Height: 100}
	pinned := leaf(0, 0)
	stretch := leaf(0, 0)
	farOnly := leaf(0, 0)
	loose := leaf(0, 0)
	Constrain(pinned, AnchorConstraint{Rect: geom.R(10, 10, 50, 20), Sides: TopLeft, Reference: ref})
	Constrain(stretch, AnchorConstraint{Rect: geom.R(10, 40, 180, 20), Sides: Left | Right, Reference: ref})
	Constrain(farOnly, AnchorConstraint{Rect: geom.R(140, 70, 50, 20), Sides: Right | Bottom, Reference: ref})

	// Container grew by 100x50.
	pl := Anchor{}.Arrange(nil, childList(pinned, stretch, farOnly, loose), geom.R(0, 0, 300, 150))
	if len(pl) != 3 {
		t.Fatalf("expected unconstrained child to be skipped, got %d placements", len(pl))
	}
	want := []geom.Rect{geom.R(10, 10, 50, 20), geom.R(10, 40, 280, 20), geom.R(240, 120, 50, 20)}
	if got := rects(pl); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := (Anchor{}).Measure(nil, childList(pinned, stretch, farOnly, loose), geom.Size{}); got != (geom.Size{Width: 190, Height: 90}) {
		t.Fatalf("expected extent 190x90, got %v", got)
	}
}
