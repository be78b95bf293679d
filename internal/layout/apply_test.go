package layout

import (
	"testing"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/shared"
	"github.com/1broseidon/wintk/internal/widget"
)

type tree struct {
	backend *platform.MemoryBackend
	ctx     *widget.Context
	cls     *widget.Class
	win     *widget.Base
}

func newTree(t *testing.T, size geom.Size) *tree {
	t.Helper()
	backend := platform.NewMemoryBackend()
	ctx := widget.NewContext(backend, widget.WithThreadCheck(true))
	cls, err := ctx.RegisterClass("panel")
	if err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	win := &widget.Base{}
	if err := widget.Create(ctx, cls, win, nil, widget.WithName("win"),
		widget.WithBounds(geom.Rect{Width: size.Width, Height: size.Height})); err != nil {
		t.Fatalf("Create window: %v", err)
	}
	return &tree{backend: backend, ctx: ctx, cls: cls, win: win}
}

func (tr *tree) child(t *testing.T, parent widget.Widget, w, h int) *widget.Base {
	t.Helper()
	c := &widget.Base{}
	if err := widget.Create(tr.ctx, tr.cls, c, parent, widget.WithPreferredSize(geom.Size{Width: w, Height: h})); err != nil {
		t.Fatalf("Create child: %v", err)
	}
	return c
}

func TestRequestLayout_AppliesBixInOneBatch(t *testing.T) {
	tr := newTree(t, geom.Size{Width: 200, Height: 100})
	a, b, c := tr.child(t, tr.win, 20, 10), tr.child(t, tr.win, 20, 10), tr.child(t, tr.win, 20, 10)
	Install(tr.win, MustParseBix("X[%,fx%,%]", ParseOptions{Spacing: 5, Border: 5}, a, b, c))

	before := len(tr.backend.Batches())
	if err := tr.win.RequestLayout(); err != nil {
		t.Fatalf("RequestLayout: %v", err)
	}
	batches := tr.backend.Batches()
	if len(batches) != before+1 {
		t.Fatalf("expected exactly one new batch, got %d", len(batches)-before)
	}
	if n := len(batches[len(batches)-1]); n != 3 {
		t.Fatalf("expected 3 moves in the batch, got %d", n)
	}

	// usable width 200-10-10 = 180, slack 120 goes to the middle column.
	want := map[*widget.Base]geom.Rect{
		a: geom.R(5, 5, 20, 10),
		b: geom.R(30, 5, 140, 10),
		c: geom.R(175, 5, 20, 10),
	}
	for w, r := range want {
		if w.Bounds() != r {
			t.Fatalf("expected %v, got %v", r, w.Bounds())
		}
		if native, _ := tr.backend.Bounds(w.Handle()); native != r {
			t.Fatalf("native window at %v, expected %v", native, r)
		}
	}

	// Nothing changed, so a second pass moves nothing.
	if err := tr.win.RequestLayout(); err != nil {
		t.Fatalf("RequestLayout: %v", err)
	}
	if got := len(tr.backend.Batches()); got != before+1 {
		t.Fatalf("expected no batch for an unchanged layout, got %d new", got-before-1)
	}
}

func TestRequestLayout_NestedContainerNotified(t *testing.T) {
	tr := newTree(t, geom.Size{Width: 100, Height: 100})
	panel := tr.child(t, tr.win, 0, 0)
	inner := tr.child(t, panel, 10, 10)
	Install(tr.win, Fill{Border: 10})
	Install(panel, Fill{})

	var laidOut []geom.Rect
	panel.LaidOut.Connect(func(ev *widget.LayoutEvent) { laidOut = append(laidOut, ev.Bounds) })

	if err := tr.win.RequestLayout(); err != nil {
		t.Fatalf("RequestLayout: %v", err)
	}
	if len(tr.backend.Batches()) != 1 {
		t.Fatalf("expected a single batch for the whole tree, got %d", len(tr.backend.Batches()))
	}
	if inner.Bounds() != geom.R(0, 0, 80, 80) {
		t.Fatalf("expected grandchild to fill the panel, got %v", inner.Bounds())
	}
	if len(laidOut) != 1 || laidOut[0] != geom.R(10, 10, 80, 80) {
		t.Fatalf("expected one OnLayout with the new bounds, got %v", laidOut)
	}
}

func TestSetLayout_ReplacementReleasesUnsharedLayout(t *testing.T) {
	tr := newTree(t, geom.Size{Width: 100, Height: 100})
	a := tr.child(t, tr.win, 10, 10)

	first := MustParseBix("X[%]", ParseOptions{}, a)
	saved := shared.New[widget.Layout](first)
	tr.win.SetLayout(saved)

	// saved is still held, so replacing the layout must not destroy it.
	Install(tr.win, Fill{})
	if !saved.Valid() || first.Len() != 1 {
		t.Fatalf("replaced layout destroyed while an external reference exists")
	}
	if got := saved.Get().Measure(nil, nil, geom.Size{}); got != (geom.Size{Width: 10, Height: 10}) {
		t.Fatalf("saved layout unusable after replacement: measured %v", got)
	}

	second := MustParseBix("Y[%]", ParseOptions{}, a)
	Install(tr.win, second)
	saved.Release()
	if first.Len() != 0 {
		t.Fatalf("expected first layout destroyed after its last reference was released")
	}

	Install(tr.win, Null{})
	if second.Len() != 0 {
		t.Fatalf("expected unshared layout destroyed on replacement")
	}
}

func TestResize_TriggersLayoutOnce(t *testing.T) {
	tr := newTree(t, geom.Size{Width: 100, Height: 50})
	a := tr.child(t, tr.win, 10, 10)
	Install(tr.win, Fill{})
	if err := tr.win.RequestLayout(); err != nil {
		t.Fatalf("RequestLayout: %v", err)
	}

	passes := 0
	tr.win.LaidOut.Connect(func(*widget.LayoutEvent) { passes++ })

	size := geom.Size{Width: 300, Height: 80}
	resize := func() {
		tr.win.OnResize(&widget.ResizeEvent{
			Event: widget.NewEvent(tr.win, platform.Message{Handle: tr.win.Handle(), ID: platform.MsgResize}),
			Size:  size,
		})
	}
	tr.win.SyncBounds(geom.Rect{Width: size.Width, Height: size.Height})
	resize()
	resize()
	if passes != 1 {
		t.Fatalf("expected one layout pass for two identical resizes, got %d", passes)
	}
	if a.Bounds() != geom.R(0, 0, 300, 80) {
		t.Fatalf("expected child to follow resize, got %v", a.Bounds())
	}
}
