package main

import (
	"testing"

	"github.com/1broseidon/wintk/internal/geom"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Size
		wantErr bool
	}{
		{in: "10x20", want: geom.Size{Width: 10, Height: 20}},
		{in: "0X5", want: geom.Size{Width: 0, Height: 5}},
		{in: "10", wantErr: true},
		{in: "ax5", wantErr: true},
		{in: "-1x5", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseSize(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseSize(%q): unexpected error state %v", tt.in, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseSize(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestParseRect(t *testing.T) {
	got, err := parseRect("1, 2,30,40")
	if err != nil || got != geom.R(1, 2, 30, 40) {
		t.Fatalf("expected (1,2,30,40), got %v (%v)", got, err)
	}
	for _, in := range []string{"1,2,3", "1,2,-3,4", "a,b,c,d"} {
		if _, err := parseRect(in); err == nil {
			t.Errorf("parseRect(%q): expected error", in)
		}
	}
}
