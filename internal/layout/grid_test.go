package layout

import (
	"testing"

	"github.com/1broseidon/wintk/internal/geom"
)

func TestGridPositions_MaxCellWidthDoesNotCompressGrid(t *testing.T) {
	g := Grid{Mode: GridFixed, Rows: 1, Cols: 2, Gap: 10, MaxCellWidth: 50}

	positions, err := g.Positions(2, geom.R(0, 0, 210, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// With width=210, gap=10, cols=2:
	// total gaps = 30, slotWidth=(210-30)/2=90, cellWidth=50, center offset=(90-50)/2=20
	// x0 = 10 + 0*(90+10) + 20 = 30
	// x1 = 10 + 1*(90+10) + 20 = 130
	if positions[0].X != 30 {
		t.Fatalf("expected pos0.X=30, got %d", positions[0].X)
	}
	if positions[1].X != 130 {
		t.Fatalf("expected pos1.X=130, got %d", positions[1].X)
	}
	if positions[0].Width != 50 || positions[1].Width != 50 {
		t.Fatalf("expected both widths to be 50, got %d and %d", positions[0].Width, positions[1].Width)
	}
}

func TestGridPositions_ErrorsWhenInsufficientSpace(t *testing.T) {
	g := Grid{Mode: GridFixed, Rows: 1, Cols: 2, Gap: 20}

	if _, err := g.Positions(2, geom.R(0, 0, 20, 10)); err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestGridPositions_FixedCapacity(t *testing.T) {
	g := Grid{Mode: GridFixed, Rows: 1, Cols: 2}

	positions, err := g.Positions(3, geom.R(0, 0, 100, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected fixed grid to cap at 2 positions, got %d", len(positions))
	}
}

func TestGridPositions_FlexibleLastRow(t *testing.T) {
	g := Grid{Mode: GridAuto, FlexibleLastRow: true}

	// 3 children in auto mode: 2x2 grid with one child on the last row.
	positions, err := g.Positions(3, geom.R(0, 0, 200, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if positions[0].Width != 100 {
		t.Fatalf("expected first row cells 100 wide, got %d", positions[0].Width)
	}
	if positions[2] != geom.R(0, 50, 200, 50) {
		t.Fatalf("expected last child to span the row, got %v", positions[2])
	}
}

func TestGridPositions_MasterStack(t *testing.T) {
	g := Grid{Mode: GridMasterStack, MasterPercent: 50, MaxStackRows: 2, MaxStackCols: 1}

	positions, err := g.Positions(4, geom.R(0, 0, 200, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One stack column of at most two rows: the fourth child does not fit.
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(positions))
	}
	if positions[0] != geom.R(0, 0, 100, 100) {
		t.Fatalf("expected master at left half, got %v", positions[0])
	}
	if positions[1] != geom.R(100, 0, 100, 50) || positions[2] != geom.R(100, 50, 100, 50) {
		t.Fatalf("unexpected stack cells %v %v", positions[1], positions[2])
	}
}

func TestGridDims(t *testing.T) {
	tests := []struct {
		mode       GridMode
		n          int
		rows, cols int
	}{
		{GridAuto, 0, 0, 0},
		{GridAuto, 1, 1, 1},
		{GridAuto, 5, 2, 3},
		{GridAuto, 9, 3, 3},
		{GridVertical, 4, 4, 1},
		{GridHorizontal, 4, 1, 4},
	}
	for _, tt := range tests {
		rows, cols := Grid{Mode: tt.mode}.Dims(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Fatalf("%s n=%d: expected %dx%d, got %dx%d", tt.mode, tt.n, tt.rows, tt.cols, rows, cols)
		}
	}
}

func TestGridArrange_InsufficientSpaceGivesEmptyRects(t *testing.T) {
	a, b := leaf(10, 10), leaf(10, 10)
	g := Grid{Mode: GridAuto, Gap: 50}

	pl := g.Arrange(nil, childList(a, b), geom.R(0, 0, 60, 60))
	if len(pl) != 2 {
		t.Fatalf("expected a placement per child, got %d", len(pl))
	}
	for _, p := range pl {
		if !p.Rect.Empty() {
			t.Fatalf("expected empty rect, got %v", p.Rect)
		}
	}
}

func TestApplyRegion(t *testing.T) {
	area := geom.R(100, 0, 1000, 800)
	tests := []struct {
		region Region
		want   geom.Rect
	}{
		{Region{Kind: RegionFull}, area},
		{Region{Kind: RegionRightHalf}, geom.R(600, 0, 500, 800)},
		{Region{Kind: RegionBottomHalf}, geom.R(100, 400, 1000, 400)},
		{Region{Kind: RegionCustom, XPercent: 10, YPercent: 50, WidthPercent: 20, HeightPercent: 25}, geom.R(200, 400, 200, 200)},
		{Region{Kind: RegionCentered}, geom.R(500, 300, 200, 200)},
		{Region{Kind: RegionCustom, WidthPercent: 0, HeightPercent: 0}, geom.R(100, 0, 1, 1)},
	}
	for _, tt := range tests {
		if got := ApplyRegion(area, tt.region, geom.Size{Width: 200, Height: 200}); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.region.Kind, tt.want, got)
		}
	}
}
