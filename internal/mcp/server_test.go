package mcp

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/wintk/internal/config"
	"github.com/1broseidon/wintk/internal/layout"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func intPtr(v int) *int { return &v }

func TestHandleParse(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name       string
		bix        string
		valid      bool
		kind       string
		line       int
		column     int
		placeholds int
	}{
		{name: "row", bix: "X[%,f%]", valid: true, kind: "row", placeholds: 2},
		{name: "matrix", bix: "eXY2[%,%;%,%]", valid: true, kind: "matrix", placeholds: 4},
		{name: "unterminated", bix: "X[%,%", line: 1, column: 6, placeholds: 2},
	}
	for _, tt := range tests {
		_, out, err := s.handleParse(context.Background(), nil, ParseBixInput{Bix: tt.bix})
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		}
		if out.Valid != tt.valid || out.Placeholders != tt.placeholds {
			t.Fatalf("%s: unexpected output %+v", tt.name, out)
		}
		if tt.valid {
			if out.Kind != tt.kind || out.Normalized == "" {
				t.Errorf("%s: expected kind %q and a normalized form, got %+v", tt.name, tt.kind, out)
			}
			continue
		}
		if out.Error == "" || out.Line != tt.line || out.Column != tt.column {
			t.Errorf("%s: expected error at %d:%d, got %+v", tt.name, tt.line, tt.column, out)
		}
	}
}

func TestHandleMeasure(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleMeasure(context.Background(), nil, BixInput{
		Bix:     "X[%,%]",
		Sizes:   []Size{{10, 10}, {20, 5}},
		Spacing: intPtr(3),
		Border:  intPtr(1),
	})
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if out.Width != 35 || out.Height != 12 {
		t.Fatalf("expected 35x12, got %dx%d", out.Width, out.Height)
	}
}

func TestHandleArrange_DefaultsToMeasuredSize(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleArrange(context.Background(), nil, ArrangeBixInput{
		Bix:     "X[%,%]",
		Sizes:   []Size{{10, 10}, {20, 5}},
		Spacing: intPtr(3),
		Border:  intPtr(1),
	})
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	want := []Rect{{1, 1, 10, 10}, {14, 1, 20, 10}}
	if out.Width != 35 || out.Height != 12 || len(out.Rects) != len(want) {
		t.Fatalf("unexpected output %+v", out)
	}
	for i := range want {
		if out.Rects[i] != want[i] {
			t.Errorf("rect %d: expected %+v, got %+v", i, want[i], out.Rects[i])
		}
	}
}

func TestHandleArrange_Preset(t *testing.T) {
	s := newTestServer(t)
	_, out, err := s.handleArrange(context.Background(), nil, ArrangeBixInput{
		Preset: config.DefaultPreset,
		Width:  400,
		Height: 300,
	})
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	bix := config.DefaultConfig().Presets[config.DefaultPreset].Bix
	if len(out.Rects) != layout.Placeholders(bix) {
		t.Fatalf("expected one rect per placeholder, got %d", len(out.Rects))
	}
}

func TestBuild_InputErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		in   BixInput
	}{
		{"neither", BixInput{}},
		{"both", BixInput{Bix: "X[%]", Preset: "form"}},
		{"unknown preset", BixInput{Preset: "nope"}},
		{"negative spacing", BixInput{Bix: "X[%]", Spacing: intPtr(-1)}},
		{"size mismatch", BixInput{Bix: "X[%,%]", Sizes: []Size{{1, 1}}}},
		{"malformed", BixInput{Bix: "X[%"}},
	}
	for _, tt := range tests {
		if _, _, err := s.build(tt.in); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestHandleGrid(t *testing.T) {
	s := newTestServer(t)

	_, out, err := s.handleGrid(context.Background(), nil, GridInput{Count: 4, Width: 208, Height: 108})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	want := []Rect{{4, 4, 98, 48}, {106, 4, 98, 48}, {4, 56, 98, 48}, {106, 56, 98, 48}}
	if out.Mode != "auto" || out.Rows != 2 || out.Cols != 2 || len(out.Rects) != 4 {
		t.Fatalf("unexpected output %+v", out)
	}
	for i := range want {
		if out.Rects[i] != want[i] {
			t.Errorf("rect %d: expected %+v, got %+v", i, want[i], out.Rects[i])
		}
	}

	_, out, err = s.handleGrid(context.Background(), nil, GridInput{Count: 3, Width: 200, Height: 100, Mode: "fixed", Rows: 1, Cols: 2})
	if err != nil {
		t.Fatalf("fixed grid: %v", err)
	}
	if len(out.Rects) != 2 {
		t.Fatalf("expected capacity-limited rects, got %d", len(out.Rects))
	}

	if _, _, err := s.handleGrid(context.Background(), nil, GridInput{Count: 2, Width: 10, Height: 10, Mode: "spiral"}); err == nil {
		t.Fatalf("expected unknown mode error")
	}
	if _, _, err := s.handleGrid(context.Background(), nil, GridInput{Count: 2, Width: 10, Height: 10, Mode: "fixed"}); err == nil {
		t.Fatalf("expected fixed mode without rows to fail")
	}
}

func TestHandleListPresets_FollowsSetConfig(t *testing.T) {
	s := newTestServer(t)
	_, before, err := s.handleListPresets(context.Background(), nil, ListPresetsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Presets["zz"] = config.PresetConfig{Bix: "X[%]", Sizes: []config.SizeConfig{{Width: 1, Height: 1}}}
	s.SetConfig(cfg)

	_, after, err := s.handleListPresets(context.Background(), nil, ListPresetsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after.Presets) != len(before.Presets)+1 {
		t.Fatalf("expected one more preset, got %d -> %d", len(before.Presets), len(after.Presets))
	}
	last := after.Presets[len(after.Presets)-1]
	if last.Name != "zz" || last.Placeholders != 1 {
		t.Fatalf("expected sorted zz preset last, got %+v", last)
	}
}
