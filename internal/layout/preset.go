package layout

import (
	"fmt"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/widget"
)

// Preset is a Bix grammar together with the preferred sizes of its
// placeholders, in placeholder order. Presets are what configuration files
// and the command line carry; Build turns one into a measurable Bix without
// any native windows.
type Preset struct {
	Grammar string
	Sizes   []geom.Size
}

// Build parses the preset, binding each placeholder to a detached leaf
// widget with the matching preferred size. The leaves are returned in
// placeholder order so callers can read back their arranged rects.
func (p Preset) Build(opts ParseOptions) (*Bix, []*widget.Base, error) {
	n := Placeholders(p.Grammar)
	if n != len(p.Sizes) {
		return nil, nil, fmt.Errorf("preset has %d sizes for %d placeholders", len(p.Sizes), n)
	}

	leaves := make([]*widget.Base, n)
	ws := make([]widget.Widget, n)
	for i, s := range p.Sizes {
		leaf := &widget.Base{}
		leaf.SetPreferredSize(s)
		leaves[i] = leaf
		ws[i] = leaf
	}

	b, err := ParseBix(p.Grammar, opts, ws...)
	if err != nil {
		return nil, nil, err
	}
	return b, leaves, nil
}

// ArrangePreset builds p and arranges it into final, returning one rect per
// placeholder in order.
func ArrangePreset(p Preset, opts ParseOptions, final geom.Rect) ([]geom.Rect, error) {
	b, leaves, err := p.Build(opts)
	if err != nil {
		return nil, err
	}
	return LeafRects(b, leaves, final), nil
}

// LeafRects arranges b into final and returns the rect of each leaf in the
// order given. Hidden leaves get the zero Rect.
func LeafRects(b *Bix, leaves []*widget.Base, final geom.Rect) []geom.Rect {
	placed := make(map[*widget.Base]geom.Rect, len(leaves))
	for _, pl := range b.Arrange(nil, nil, final) {
		placed[pl.Widget] = pl.Rect
	}
	out := make([]geom.Rect, len(leaves))
	for i, leaf := range leaves {
		out[i] = placed[leaf]
	}
	return out
}
