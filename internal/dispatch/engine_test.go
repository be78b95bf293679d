package dispatch

import (
	"errors"
	"sync"
	"testing"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/platform"
	"github.com/1broseidon/wintk/internal/widget"
)

// recorder counts handler calls and optionally consumes reflected events.
type recorder struct {
	widget.Base
	commands  int
	notifies  int
	drawItems int
	reflected int
	consume   bool
	raw       []platform.Message
}

func (r *recorder) OnCommand(ev *widget.CommandEvent) {
	r.commands++
	r.Base.OnCommand(ev)
}

func (r *recorder) OnNotify(ev *widget.NotifyEvent) {
	r.notifies++
	r.Base.OnNotify(ev)
}

func (r *recorder) OnDrawItem(ev *widget.DrawItemEvent) {
	r.drawItems++
	r.Base.OnDrawItem(ev)
}

func (r *recorder) OnReflectedCommand(ev *widget.CommandEvent) {
	r.reflected++
	if r.consume {
		ev.Consume()
		ev.Result = 42
	}
	r.Base.OnReflectedCommand(ev)
}

func (r *recorder) OnReflectedDrawItem(ev *widget.DrawItemEvent) {
	r.reflected++
	if r.consume {
		ev.Consume()
	}
	r.Base.OnReflectedDrawItem(ev)
}

// OnClose consumes the event before deferring to the base handler.
func (r *recorder) OnClose(ev *widget.CloseEvent) {
	if r.consume {
		ev.Consume()
	}
	r.Base.OnClose(ev)
}

func (r *recorder) OnPaint(*widget.PaintEvent) {
	panic("paint failed")
}

func (r *recorder) PreTranslateMessage(msg platform.Message) bool {
	if !msg.ID.Registered() {
		return false
	}
	r.raw = append(r.raw, msg)
	return true
}

type fixture struct {
	backend *platform.MemoryBackend
	ctx     *widget.Context
	engine  *Engine
	parent  *recorder
	child   *recorder
	panics  []*HandlerError
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{backend: platform.NewMemoryBackend()}
	f.ctx = widget.NewContext(f.backend, widget.WithThreadCheck(true))
	opts = append([]Option{WithExceptionHook(func(herr *HandlerError) { f.panics = append(f.panics, herr) })}, opts...)
	f.engine = New(f.ctx, opts...)

	cls, err := f.ctx.RegisterClass("recorder")
	if err != nil {
		t.Fatalf("RegisterClass: %v", err)
	}
	f.parent, f.child = &recorder{}, &recorder{}
	if err := widget.Create(f.ctx, cls, f.parent, nil, widget.WithBounds(geom.R(0, 0, 100, 100))); err != nil {
		t.Fatalf("Create parent: %v", err)
	}
	if err := widget.Create(f.ctx, cls, f.child, f.parent, widget.WithControlID(10)); err != nil {
		t.Fatalf("Create child: %v", err)
	}
	f.engine.Pump(f.backend)
	return f
}

func TestDispatch_UnknownHandleIsUnhandled(t *testing.T) {
	f := newFixture(t)
	handled, _ := f.engine.Dispatch(platform.NewClose(0xdead))
	if handled {
		t.Fatalf("expected unknown handle to be unhandled")
	}
	if _, err := f.engine.Resolve(0xdead); !errors.Is(err, ErrUnknownHandle) {
		t.Fatalf("expected ErrUnknownHandle, got %v", err)
	}
}

func TestDispatch_CommandReflectsToChild(t *testing.T) {
	f := newFixture(t)
	var fired int
	f.child.Command.Connect(func(*widget.CommandEvent) { fired++ })

	handled, _ := f.engine.Dispatch(platform.NewCommand(f.parent.Handle(), 10, 1, f.child.Handle()))
	if handled {
		t.Fatalf("expected unconsumed command to be unhandled")
	}
	if f.child.reflected != 1 || f.parent.commands != 1 {
		t.Fatalf("expected the child then the parent, got child=%d parent=%d", f.child.reflected, f.parent.commands)
	}
	if fired != 1 {
		t.Fatalf("expected child Command signal once, got %d", fired)
	}

	f.child.consume = true
	handled, result := f.engine.Dispatch(platform.NewCommand(f.parent.Handle(), 10, 1, f.child.Handle()))
	if !handled || result != 42 {
		t.Fatalf("expected consumed command handled with result 42, got %v %d", handled, result)
	}
	if f.parent.commands != 1 {
		t.Fatalf("consumed reflection must not reach the parent, got %d parent calls", f.parent.commands)
	}
}

func TestDispatch_CommandWithoutChildStaysOnParent(t *testing.T) {
	f := newFixture(t)
	f.engine.Dispatch(platform.NewCommand(f.parent.Handle(), 3, 0, 0))
	if f.parent.commands != 1 || f.child.reflected != 0 {
		t.Fatalf("expected menu command on the parent, got parent=%d child=%d", f.parent.commands, f.child.reflected)
	}
}

func TestDispatch_ReflectionFailureIsUnhandled(t *testing.T) {
	f := newFixture(t)
	stray := platform.Handle(0xbeef)

	tests := []struct {
		name string
		msg  platform.Message
	}{
		{"unknown child handle", platform.NewCommand(f.parent.Handle(), 99, 0, stray)},
		{"id matches but handle does not", platform.NewCommand(f.parent.Handle(), 10, 0, stray)},
		{"notify unknown id", platform.NewNotify(f.parent.Handle(), 99, 0, 0, nil)},
		{"draw item unknown id", platform.NewDrawItem(f.parent.Handle(), 99, 0, nil)},
	}
	for _, tt := range tests {
		handled, _ := f.engine.Dispatch(tt.msg)
		if handled {
			t.Fatalf("%s: expected unhandled", tt.name)
		}
	}
	if len(f.panics) != 0 {
		t.Fatalf("reflection failure must not reach the exception hook")
	}
	if f.child.reflected != 0 {
		t.Fatalf("no child handler should run on reflection failure")
	}
	if f.parent.commands != 2 || f.parent.notifies != 1 || f.parent.drawItems != 1 {
		t.Fatalf("expected the parent to handle every failed reflection, got commands=%d notifies=%d draw=%d",
			f.parent.commands, f.parent.notifies, f.parent.drawItems)
	}
}

func TestDispatch_ReflectionAfterChildDestroyed(t *testing.T) {
	f := newFixture(t)
	childHandle := f.child.Handle()
	if err := widget.Destroy(f.child); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if handled, _ := f.engine.Dispatch(platform.NewCommand(f.parent.Handle(), 10, 0, childHandle)); handled {
		t.Fatalf("expected notification from a destroyed child to be unhandled")
	}
}

func TestDispatch_NotifyCarriesData(t *testing.T) {
	f := newFixture(t)
	var got any
	f.child.Notify.Connect(func(ev *widget.NotifyEvent) { got = ev.Data })

	f.engine.Dispatch(platform.NewNotify(f.parent.Handle(), 10, 7, 0, "selection"))
	if got != "selection" {
		t.Fatalf("expected notify data on the child, got %v", got)
	}
}

func TestDispatch_PanicReachesHookOnce(t *testing.T) {
	f := newFixture(t)
	handled, _ := f.engine.Dispatch(platform.NewPaint(f.parent.Handle(), geom.R(0, 0, 10, 10)))
	if handled {
		t.Fatalf("expected panicking handler to leave the message unhandled")
	}
	if len(f.panics) != 1 {
		t.Fatalf("expected one hook call, got %d", len(f.panics))
	}
	herr := f.panics[0]
	if herr.Message != platform.MsgPaint || herr.Handle != f.parent.Handle() || herr.Value != "paint failed" {
		t.Fatalf("unexpected handler error %+v", herr)
	}
	if herr.Stack == "" {
		t.Fatalf("expected a captured stack")
	}
}

func TestDispatch_PanicInSignalSlot(t *testing.T) {
	f := newFixture(t)
	f.parent.Closed.Connect(func(*widget.CloseEvent) { panic(errors.New("slot failed")) })

	f.engine.Dispatch(platform.NewClose(f.parent.Handle()))
	if len(f.panics) != 1 {
		t.Fatalf("expected one hook call, got %d", len(f.panics))
	}
	if f.panics[0].Unwrap() == nil {
		t.Fatalf("expected error panic value to unwrap")
	}
}

func TestDispatch_EnqueuedPayloadReachesPreTranslate(t *testing.T) {
	f := newFixture(t)
	id, err := f.ctx.RegisterMessage("wintk.progress")
	if err != nil {
		t.Fatalf("RegisterMessage: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := f.ctx.Enqueue(f.parent, id, 75); err != nil {
			t.Errorf("Enqueue: %v", err)
		}
	}()
	wg.Wait()

	if n := f.engine.Pump(f.backend); n != 1 {
		t.Fatalf("expected one message pumped, got %d", n)
	}
	if len(f.parent.raw) != 1 || f.parent.raw[0].Payload != 75 {
		t.Fatalf("expected payload 75 in PreTranslateMessage, got %v", f.parent.raw)
	}
}

func TestDispatch_UnknownRegisteredMessageFallsThrough(t *testing.T) {
	f := newFixture(t)
	cls, _ := f.ctx.RegisterClass("plain")
	plain := &widget.Base{}
	if err := widget.Create(f.ctx, cls, plain, nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	id, _ := f.ctx.RegisterMessage("wintk.ignored")
	if handled, _ := f.engine.Dispatch(platform.Message{Handle: plain.Handle(), ID: id}); handled {
		t.Fatalf("expected registered message without a pre-translator to be unhandled")
	}
}

func TestDispatch_ResizeSyncsBoundsAndFires(t *testing.T) {
	f := newFixture(t)
	var sizes []geom.Size
	f.parent.Resized.Connect(func(ev *widget.ResizeEvent) { sizes = append(sizes, ev.Size) })

	if err := f.backend.Resize(f.parent.Handle(), geom.Size{Width: 320, Height: 240}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	f.engine.Pump(f.backend)
	if len(sizes) != 1 || sizes[0] != (geom.Size{Width: 320, Height: 240}) {
		t.Fatalf("expected one resize to 320x240, got %v", sizes)
	}
	if f.parent.Bounds().Size() != (geom.Size{Width: 320, Height: 240}) {
		t.Fatalf("expected bounds synced, got %v", f.parent.Bounds())
	}
}

func TestDispatch_MouseAndKeyDecoding(t *testing.T) {
	f := newFixture(t)
	var mouse *widget.MouseEvent
	var key *widget.KeyEvent
	var scroll *widget.ScrollEvent
	f.parent.MouseDown.Connect(func(ev *widget.MouseEvent) { mouse = ev })
	f.parent.KeyDown.Connect(func(ev *widget.KeyEvent) { key = ev })
	f.parent.Scrolled.Connect(func(ev *widget.ScrollEvent) { scroll = ev })

	h := f.parent.Handle()
	f.engine.Dispatch(platform.NewMouse(h, platform.MsgMouseDown, 3, platform.ModControl, geom.Point{X: -4, Y: 17}))
	f.engine.Dispatch(platform.NewKey(h, platform.MsgKeyDown, 38, 0x61, platform.ModShift|platform.ModSuper))
	f.engine.Dispatch(platform.NewScroll(h, platform.ScrollHorizontal, -2, platform.ModAlt, geom.Point{X: 5, Y: 6}))

	if mouse == nil || mouse.Button != 3 || mouse.Modifiers != platform.ModControl || mouse.Pos != (geom.Point{X: -4, Y: 17}) {
		t.Fatalf("bad mouse decode: %+v", mouse)
	}
	if key == nil || key.Keycode != 38 || key.Keysym != 0x61 || key.Modifiers != platform.ModShift|platform.ModSuper {
		t.Fatalf("bad key decode: %+v", key)
	}
	if scroll == nil || !scroll.Horizontal() || scroll.Delta != -2 || scroll.Modifiers != platform.ModAlt {
		t.Fatalf("bad scroll decode: %+v", scroll)
	}
}

func TestDispatch_NotifyFallsBackToParent(t *testing.T) {
	f := newFixture(t)
	var parentData []any
	f.parent.Notify.Connect(func(ev *widget.NotifyEvent) { parentData = append(parentData, ev.Data) })

	tests := []struct {
		name string
		msg  platform.Message
	}{
		{"unconsumed by live child", platform.NewNotify(f.parent.Handle(), 10, 1, f.child.Handle(), "a")},
		{"no child and no id", platform.NewNotify(f.parent.Handle(), 0, 2, 0, "b")},
	}
	for _, tt := range tests {
		if handled, _ := f.engine.Dispatch(tt.msg); handled {
			t.Fatalf("%s: expected unhandled", tt.name)
		}
	}
	if f.parent.notifies != 2 || len(parentData) != 2 || parentData[0] != "a" || parentData[1] != "b" {
		t.Fatalf("expected both notifications on the parent, got %d calls data %v", f.parent.notifies, parentData)
	}
}

func TestDispatch_DrawItemReflectsWithData(t *testing.T) {
	f := newFixture(t)
	var childData any
	f.child.DrawItem.Connect(func(ev *widget.DrawItemEvent) { childData = ev.Data })
	f.child.consume = true

	handled, _ := f.engine.Dispatch(platform.NewDrawItem(f.parent.Handle(), 10, f.child.Handle(), "row 3"))
	if !handled {
		t.Fatalf("expected consumed draw item to be handled")
	}
	if f.child.reflected != 1 || f.parent.drawItems != 0 {
		t.Fatalf("expected draw item on the child only, got child=%d parent=%d", f.child.reflected, f.parent.drawItems)
	}
	// The child consumed before the base handler ran, so its signal stays quiet.
	if childData != nil {
		t.Fatalf("expected no DrawItem signal on a consumed event, got %v", childData)
	}

	f.child.consume = false
	f.engine.Dispatch(platform.NewDrawItem(f.parent.Handle(), 10, 0, "row 4"))
	if childData != "row 4" || f.parent.drawItems != 1 {
		t.Fatalf("expected child signal with row 4 then the parent, got %v parent=%d", childData, f.parent.drawItems)
	}
}

func TestDispatch_ConsumedBeforeBaseSkipsSignal(t *testing.T) {
	f := newFixture(t)
	var closed int
	f.parent.Closed.Connect(func(*widget.CloseEvent) { closed++ })
	f.parent.consume = true

	if handled, _ := f.engine.Dispatch(platform.NewClose(f.parent.Handle())); !handled {
		t.Fatalf("expected consumed close to be handled")
	}
	if closed != 0 {
		t.Fatalf("expected Closed not to fire, got %d", closed)
	}

	f.parent.consume = false
	if handled, _ := f.engine.Dispatch(platform.NewClose(f.parent.Handle())); handled {
		t.Fatalf("expected unconsumed close to be unhandled")
	}
	if closed != 1 {
		t.Fatalf("expected Closed once, got %d", closed)
	}
}

func TestDispatch_DecodesEveryFamily(t *testing.T) {
	f := newFixture(t)
	h := f.parent.Handle()

	var (
		scroll *widget.ScrollEvent
		cursor *widget.SetCursorEvent
		focus  []bool
		closed int
	)
	f.parent.Scrolled.Connect(func(ev *widget.ScrollEvent) { scroll = ev })
	f.parent.CursorQuery.Connect(func(ev *widget.SetCursorEvent) { cursor = ev })
	f.parent.Focus.Connect(func(ev *widget.FocusEvent) { focus = append(focus, ev.Gained) })
	f.parent.Closed.Connect(func(*widget.CloseEvent) { closed++ })

	tests := []struct {
		name  string
		msg   platform.Message
		check func() bool
	}{
		{"vertical scroll", platform.NewScroll(h, platform.ScrollVertical, 3, 0, geom.Point{X: 1, Y: 2}),
			func() bool {
				return scroll != nil && !scroll.Horizontal() && scroll.Delta == 3 && scroll.Pos == (geom.Point{X: 1, Y: 2})
			}},
		{"set cursor", platform.NewSetCursor(h, platform.HitCaption, geom.Point{X: 9, Y: -1}),
			func() bool {
				return cursor != nil && cursor.HitTest == platform.HitCaption && cursor.Pos == (geom.Point{X: 9, Y: -1})
			}},
		{"focus gained", platform.NewFocus(h, true), func() bool { return len(focus) == 1 && focus[0] }},
		{"focus lost", platform.NewFocus(h, false), func() bool { return len(focus) == 2 && !focus[1] }},
		{"close", platform.NewClose(h), func() bool { return closed == 1 }},
	}
	for _, tt := range tests {
		if handled, _ := f.engine.Dispatch(tt.msg); handled {
			t.Errorf("%s: expected unhandled", tt.name)
		}
		if !tt.check() {
			t.Errorf("%s: bad decode", tt.name)
		}
	}
	if len(f.panics) != 0 {
		t.Fatalf("unexpected handler panics: %d", len(f.panics))
	}
}

func TestDispatch_PayloadDroppedForDestroyedTarget(t *testing.T) {
	f := newFixture(t)
	id, err := f.ctx.RegisterMessage("wintk.reply")
	if err != nil {
		t.Fatalf("RegisterMessage: %v", err)
	}
	reply := make(chan error, 1)
	if err := f.ctx.Enqueue(f.child, id, reply); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if n := f.ctx.PendingPayloads(); n != 1 {
		t.Fatalf("expected one pending payload, got %d", n)
	}
	if err := widget.Destroy(f.child); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	f.engine.Pump(f.backend)
	if n := f.ctx.PendingPayloads(); n != 0 {
		t.Fatalf("expected the payload of a destroyed target to be dropped, %d left", n)
	}
}

func TestDispatch_PanickingHookStaysContained(t *testing.T) {
	calls := 0
	f := newFixture(t, WithExceptionHook(func(*HandlerError) {
		calls++
		panic("hook failed")
	}))

	handled, result := f.engine.Dispatch(platform.NewPaint(f.parent.Handle(), geom.R(0, 0, 1, 1)))
	if handled || result != 0 {
		t.Fatalf("expected unhandled zero result, got %v %d", handled, result)
	}
	if calls != 1 {
		t.Fatalf("expected the hook once, got %d", calls)
	}

	// The engine keeps dispatching afterwards.
	var focused bool
	f.parent.Focus.Connect(func(ev *widget.FocusEvent) { focused = ev.Gained })
	f.engine.Dispatch(platform.NewFocus(f.parent.Handle(), true))
	if !focused {
		t.Fatalf("expected dispatch to continue after a hook panic")
	}
}
