package tui

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/wintk/internal/config"
	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Presets = map[string]config.PresetConfig{
		"pair": {Bix: "X[%,f%]", Sizes: []config.SizeConfig{{Width: 10, Height: 10}, {Width: 20, Height: 10}}},
		"solo": {Bix: "Y[f%]", Sizes: []config.SizeConfig{{Width: 5, Height: 5}}},
	}
	cfg.Window.Preset = "pair"
	return cfg
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		if m, ok = next.(model); !ok {
			t.Fatalf("Update returned %T", next)
		}
	}
	return m
}

func newTestModel(t *testing.T, path string) model {
	t.Helper()
	return send(t, newModel(path, testConfig(), nil), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func TestSketch(t *testing.T) {
	rects := []geom.Rect{geom.R(0, 0, 10, 10), geom.R(10, 0, 10, 10)}
	got := Sketch(rects, geom.R(0, 0, 20, 10), 20, 5)

	want := []string{
		"+--------++--------+",
		"|        ||        |",
		"|   1    ||   2    |",
		"|        ||        |",
		"+--------++--------+",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSketch_EmptyGrid(t *testing.T) {
	if got := Sketch([]geom.Rect{geom.R(0, 0, 1, 1)}, geom.R(0, 0, 1, 1), 0, 10); got != nil {
		t.Fatalf("expected nil for a zero-width grid, got %q", got)
	}
}

func TestArrange_DefaultsToMeasuredSize(t *testing.T) {
	p := layout.Preset{Grammar: "X[%,%]", Sizes: []geom.Size{{Width: 10, Height: 10}, {Width: 20, Height: 5}}}
	a, err := arrange(p, layout.ParseOptions{Spacing: 3, Border: 1}, geom.Rect{})
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if a.final != geom.R(0, 0, 35, 12) {
		t.Fatalf("expected measured final 35x12, got %v", a.final)
	}
	if len(a.rects) != 2 || a.rects[1] != geom.R(14, 1, 20, 10) {
		t.Fatalf("unexpected rects %v", a.rects)
	}
	if got := summarize(a); got != "2 cells • natural 35×12 • min 10×10 • max 20×10" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestFitSizes(t *testing.T) {
	tests := []struct {
		in   []geom.Size
		n    int
		want []geom.Size
	}{
		{in: []geom.Size{{Width: 1, Height: 2}}, n: 3, want: []geom.Size{{Width: 1, Height: 2}, {Width: 1, Height: 2}, {Width: 1, Height: 2}}},
		{in: []geom.Size{{Width: 1, Height: 2}, {Width: 3, Height: 4}}, n: 1, want: []geom.Size{{Width: 1, Height: 2}}},
		{in: nil, n: 2, want: []geom.Size{{}, {}}},
	}
	for _, tt := range tests {
		got := fitSizes(tt.in, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("fitSizes(%v, %d): expected %v, got %v", tt.in, tt.n, tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("fitSizes(%v, %d): expected %v, got %v", tt.in, tt.n, tt.want, got)
			}
		}
	}
}

func TestResizeBix(t *testing.T) {
	tests := []struct {
		in    string
		delta int
		want  string
		ok    bool
	}{
		{in: "X[%,f%]", delta: 1, want: "X[%,f%,%]", ok: true},
		{in: "X[%,f%]", delta: -1, want: "X[%]", ok: true},
		{in: "Y[f%]", delta: -1},
		{in: "X[%,Y[%,%]]", delta: -1},
		{in: "%", delta: 1},
	}
	for _, tt := range tests {
		got, ok := resizeBix(tt.in, tt.delta)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("resizeBix(%q, %d): expected %q/%v, got %q/%v", tt.in, tt.delta, tt.want, tt.ok, got, ok)
		}
	}
}

func TestModel_EditBix(t *testing.T) {
	m := newTestModel(t, "unused.yaml")
	if m.selectedName() != "pair" {
		t.Fatalf("expected the window preset to be selected, got %q", m.selectedName())
	}

	m = send(t, m, key("e"))
	if m.focus != focusEdit || m.input.Value() != "X[%,f%]" {
		t.Fatalf("expected editing X[%%,f%%], got focus %d value %q", m.focus, m.input.Value())
	}

	m.input.SetValue("Y[%,%,%]")
	m = send(t, m, key("enter"))
	p := m.cfg.Presets["pair"]
	if m.focus != focusList || p.Bix != "Y[%,%,%]" || len(p.Sizes) != 3 || p.Sizes[2] != p.Sizes[1] {
		t.Fatalf("unexpected preset after edit: focus %d %+v", m.focus, p)
	}
	if !m.dirty() || !m.presetModified("pair") || m.presetModified("solo") {
		t.Fatalf("expected only pair to be modified")
	}
}

func TestModel_EditBix_InvalidKeepsEditing(t *testing.T) {
	m := newTestModel(t, "unused.yaml")
	m = send(t, m, key("e"))
	m.input.SetValue("X[%,")
	m = send(t, m, key("enter"))

	if m.focus != focusEdit || m.status == "" {
		t.Fatalf("expected to stay in edit mode with an error, got focus %d status %q", m.focus, m.status)
	}
	if m.cfg.Presets["pair"].Bix != "X[%,f%]" {
		t.Fatalf("invalid grammar must not be applied")
	}

	m = send(t, m, key("esc"))
	if m.focus != focusList {
		t.Fatalf("expected esc to leave edit mode")
	}
}

func TestModel_ResizeAndDefault(t *testing.T) {
	m := newTestModel(t, "unused.yaml")
	m = send(t, m, key("+"))
	if got := m.cfg.Presets["pair"]; got.Bix != "X[%,f%,%]" || len(got.Sizes) != 3 {
		t.Fatalf("unexpected preset after +: %+v", got)
	}

	m = send(t, m, key("down"), key("d"))
	if m.cfg.Window.Preset != "solo" {
		t.Fatalf("expected solo as window preset, got %q", m.cfg.Window.Preset)
	}
}

func TestSaveOverlay_Commit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	m := newTestModel(t, path)

	var s saveOverlay
	if s.show(m.original, m.cfg); s.err != errNoChanges || s.phase != saveResult {
		t.Fatalf("expected no changes, got %v", s.err)
	}

	m.cfg.Window.Preset = "solo"
	s.show(m.original, m.cfg)
	if s.phase != savePreview || len(s.diffLines) == 0 {
		t.Fatalf("expected a diff preview, got phase %d", s.phase)
	}

	reloads := 0
	s.commit(m.saveConfig, func() error { reloads++; return nil })
	if !s.succeeded() || !s.reloaded || reloads != 1 {
		t.Fatalf("expected save and reload, got err %v reloaded %v", s.err, s.reloaded)
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if res.Config.Window.Preset != "solo" || res.Config.Presets["pair"].Bix != "X[%,f%]" {
		t.Fatalf("unexpected saved config %+v", res.Config.Window)
	}
}

func TestSaveOverlay_CommitError(t *testing.T) {
	var s saveOverlay
	boom := errors.New("boom")
	s.commit(func() error { return boom }, func() error { t.Fatalf("reload after failed save"); return nil })
	if s.succeeded() || !errors.Is(s.err, boom) {
		t.Fatalf("expected failed save, got %v", s.err)
	}
}

func TestComputeDiffLines(t *testing.T) {
	a := testConfig()
	b := testConfig()
	if got := computeDiffLines(a, b); got != nil {
		t.Fatalf("expected no diff for equal configs, got %v", got)
	}
	b.Layout.Spacing = a.Layout.Spacing + 5
	var added, removed int
	for _, l := range computeDiffLines(a, b) {
		switch l.kind {
		case diffAdded:
			added++
		case diffRemoved:
			removed++
		}
	}
	if added != 1 || removed != 1 {
		t.Fatalf("expected one changed line, got +%d -%d", added, removed)
	}
}

func TestDiffOps_SeparatesDistantChanges(t *testing.T) {
	a := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	b := []string{"A", "b", "c", "d", "e", "f", "g", "h", "i", "J"}

	var kinds []diffKind
	var texts []string
	for _, l := range diffOps(a, b, 1) {
		kinds = append(kinds, l.kind)
		texts = append(texts, l.text)
	}
	want := []string{"a", "A", "b", "...", "i", "j", "J"}
	if len(texts) != len(want) {
		t.Fatalf("expected %q, got %q", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("expected %q, got %q", want, texts)
		}
	}
	if kinds[0] != diffRemoved || kinds[1] != diffAdded || kinds[2] != diffContext {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}
