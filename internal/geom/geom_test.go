package geom

import "testing"

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", R(0, 0, 10, 10), R(5, 5, 10, 10), R(5, 5, 5, 5)},
		{"contained", R(0, 0, 100, 100), R(10, 20, 5, 5), R(10, 20, 5, 5)},
		{"touching edges", R(0, 0, 10, 10), R(10, 0, 10, 10), Rect{}},
		{"disjoint", R(0, 0, 10, 10), R(50, 50, 1, 1), Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectInsetClampsToZero(t *testing.T) {
	r := R(0, 0, 6, 20).Inset(4)
	if r.Width != 0 || r.Height != 12 {
		t.Fatalf("expected 0x12, got %v", r.Size())
	}
	if r.X != 4 || r.Y != 4 {
		t.Fatalf("expected origin 4,4, got %d,%d", r.X, r.Y)
	}
}

func TestRectContains(t *testing.T) {
	r := R(10, 10, 5, 5)
	if !r.Contains(Point{X: 10, Y: 14}) {
		t.Fatalf("expected point on left edge to be inside")
	}
	if r.Contains(Point{X: 15, Y: 10}) {
		t.Fatalf("expected point on right edge to be outside")
	}
}
