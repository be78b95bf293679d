package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/widget"
)

// BixKind is the shape of a Bix.
type BixKind int

const (
	Row BixKind = iota
	Column
	Matrix
)

func (k BixKind) String() string {
	switch k {
	case Row:
		return "row"
	case Column:
		return "column"
	case Matrix:
		return "matrix"
	default:
		return fmt.Sprintf("BixKind(%d)", int(k))
	}
}

// Flags modify how a Bix distributes space and how an element takes it.
type Flags uint8

const (
	// EvenX gives every column of the Bix the same width.
	EvenX Flags = 1 << iota
	// EvenY gives every row of the Bix the same height.
	EvenY
	// FillX makes the element's column absorb horizontal slack.
	FillX
	// FillY makes the element's row absorb vertical slack.
	FillY
)

const (
	EvenXY = EvenX | EvenY
	FillXY = FillX | FillY
)

func (f Flags) String() string {
	var parts []string
	for _, fl := range []struct {
		flag Flags
		name string
	}{{EvenX, "even-x"}, {EvenY, "even-y"}, {FillX, "fill-x"}, {FillY, "fill-y"}} {
		if f&fl.flag != 0 {
			parts = append(parts, fl.name)
		}
	}
	return strings.Join(parts, "|")
}

// Element is one entry of a Bix: a WidgetElement or a SubBixElement.
type Element interface {
	ElementFlags() Flags
}

// WidgetElement places one child widget in a cell.
type WidgetElement struct {
	Widget *widget.Base
	Flags  Flags
}

func (e *WidgetElement) ElementFlags() Flags { return e.Flags }

// SubBixElement nests a Bix in a cell. The nested Bix's own Flags carry both
// its distribution (EvenX, EvenY) and its fill behavior in the parent.
type SubBixElement struct {
	Bix *Bix
}

func (e *SubBixElement) ElementFlags() Flags { return e.Bix.Flags }

// padElement is an empty cell used to square up short matrix rows.
type padElement struct{}

func (padElement) ElementFlags() Flags { return 0 }

// Bix arranges its elements as a row, a column or a matrix. It is a
// widget.Layout; install it with widget.Base.SetLayout.
type Bix struct {
	Kind  BixKind
	Flags Flags
	// Columns is the matrix column count. Zero picks ceil(sqrt(n)).
	Columns int
	Spacing int
	Border  int

	elements []Element
}

var _ widget.Layout = (*Bix)(nil)

// NewBix creates an empty Bix of the given kind.
func NewBix(kind BixKind) *Bix {
	return &Bix{Kind: kind}
}

func NewRow() *Bix    { return NewBix(Row) }
func NewColumn() *Bix { return NewBix(Column) }

// NewMatrix creates a matrix with a fixed column count.
func NewMatrix(columns int) *Bix {
	return &Bix{Kind: Matrix, Columns: columns}
}

// AddWidget appends a leaf element.
func (b *Bix) AddWidget(w widget.Widget, flags Flags) *Bix {
	b.elements = append(b.elements, &WidgetElement{Widget: w.Wrappee(), Flags: flags})
	return b
}

// AddBix appends a nested Bix. Ownership of sub passes to b.
func (b *Bix) AddBix(sub *Bix) *Bix {
	b.elements = append(b.elements, &SubBixElement{Bix: sub})
	return b
}

// Remove deletes the element at index i.
func (b *Bix) Remove(i int) error {
	if i < 0 || i >= len(b.elements) {
		return fmt.Errorf("bix: element index %d out of range [0,%d)", i, len(b.elements))
	}
	b.elements = append(b.elements[:i], b.elements[i+1:]...)
	return nil
}

// RemoveWidget deletes every leaf element referring to w, searching nested
// Bixes too. It reports whether anything was removed.
func (b *Bix) RemoveWidget(w widget.Widget) bool {
	target := w.Wrappee()
	removed := false
	kept := b.elements[:0]
	for _, el := range b.elements {
		switch e := el.(type) {
		case *WidgetElement:
			if e.Widget == target {
				removed = true
				continue
			}
		case *SubBixElement:
			if e.Bix.RemoveWidget(w) {
				removed = true
			}
		}
		kept = append(kept, el)
	}
	b.elements = kept
	return removed
}

// Len returns the number of elements, including the empty cells that pad
// short matrix rows.
func (b *Bix) Len() int { return len(b.elements) }

// Elements returns a copy of the element list.
func (b *Bix) Elements() []Element {
	out := make([]Element, len(b.elements))
	copy(out, b.elements)
	return out
}

// Destroy drops the element tree. It runs when the last reference to an
// installed Bix is released.
func (b *Bix) Destroy() {
	for _, el := range b.elements {
		if sub, ok := el.(*SubBixElement); ok {
			sub.Bix.Destroy()
		}
	}
	b.elements = nil
}

// dims returns the matrix shape for the current element count.
func (b *Bix) dims() (rows, cols int) {
	n := len(b.elements)
	if n == 0 {
		return 0, 0
	}
	switch b.Kind {
	case Row:
		return 1, n
	case Column:
		return n, 1
	default:
		cols = b.Columns
		if cols <= 0 {
			cols = int(math.Ceil(math.Sqrt(float64(n))))
		}
		rows = (n + cols - 1) / cols
		return rows, cols
	}
}

// cellMatrix is the transient grid built for one measure or arrange call.
// A track is occupied when it holds a visible widget or a nested Bix; only
// occupied tracks are separated by spacing.
type cellMatrix struct {
	rows, cols int
	cells      []Element // row-major, nil for unfilled trailing cells
	sizes      []geom.Size
	colW       []int
	rowH       []int
	fillCol    []bool
	fillRow    []bool
	usedCol    []bool
	usedRow    []bool
}

func (b *Bix) buildMatrix() *cellMatrix {
	rows, cols := b.dims()
	m := &cellMatrix{
		rows:    rows,
		cols:    cols,
		cells:   make([]Element, rows*cols),
		sizes:   make([]geom.Size, rows*cols),
		colW:    make([]int, cols),
		rowH:    make([]int, rows),
		fillCol: make([]bool, cols),
		fillRow: make([]bool, rows),
		usedCol: make([]bool, cols),
		usedRow: make([]bool, rows),
	}
	for i, el := range b.elements {
		m.cells[i] = el
		m.sizes[i] = elementSize(el)
	}
	for i, el := range m.cells {
		if !occupies(el) {
			continue
		}
		r, c := i/cols, i%cols
		s := m.sizes[i]
		m.colW[c] = max(m.colW[c], s.Width)
		m.rowH[r] = max(m.rowH[r], s.Height)
		m.usedCol[c], m.usedRow[r] = true, true
		f := el.ElementFlags()
		if f&FillX != 0 {
			m.fillCol[c] = true
		}
		if f&FillY != 0 {
			m.fillRow[r] = true
		}
	}
	return m
}

func occupies(el Element) bool {
	switch e := el.(type) {
	case *WidgetElement:
		return e.Widget != nil && e.Widget.Visible()
	case *SubBixElement:
		return true
	}
	return false
}

func elementSize(el Element) geom.Size {
	switch e := el.(type) {
	case *WidgetElement:
		if e.Widget == nil || !e.Widget.Visible() {
			return geom.Size{}
		}
		return widget.PreferredSizeOf(e.Widget, geom.Size{})
	case *SubBixElement:
		return e.Bix.measure()
	default:
		return geom.Size{}
	}
}

func (b *Bix) measure() geom.Size {
	if len(b.elements) == 0 {
		return geom.Size{}
	}
	m := b.buildMatrix()
	return geom.Size{
		Width:  naturalExtent(m.colW, m.usedCol, b.Spacing, b.Flags&EvenX != 0) + 2*b.Border,
		Height: naturalExtent(m.rowH, m.usedRow, b.Spacing, b.Flags&EvenY != 0) + 2*b.Border,
	}
}

// naturalExtent is the length of the occupied tracks plus the spacing
// between them. Even tracks all take the largest natural size.
func naturalExtent(natural []int, used []bool, spacing int, even bool) int {
	n := count(used)
	if n == 0 {
		return 0
	}
	if even {
		largest := 0
		for i, v := range natural {
			if used[i] {
				largest = max(largest, v)
			}
		}
		return n*largest + spacing*(n-1)
	}
	return sum(natural) + spacing*(n-1)
}

// Measure returns the natural size: the per-column maxima and per-row
// maxima summed, plus spacing between occupied tracks and the border around
// them. Even tracks all count as wide (tall) as the largest one. The fit
// hint does not change a Bix's natural size.
func (b *Bix) Measure(_ *widget.Base, _ []*widget.Base, _ geom.Size) geom.Size {
	return b.measure()
}

// Arrange places every visible leaf widget of the Bix inside final.
func (b *Bix) Arrange(_ *widget.Base, _ []*widget.Base, final geom.Rect) []widget.Placement {
	var out []widget.Placement
	b.arrange(final, &out)
	return out
}

func (b *Bix) arrange(final geom.Rect, out *[]widget.Placement) {
	if len(b.elements) == 0 {
		return
	}
	m := b.buildMatrix()

	usableW := final.Width - 2*b.Border - b.Spacing*max(count(m.usedCol)-1, 0)
	usableH := final.Height - 2*b.Border - b.Spacing*max(count(m.usedRow)-1, 0)
	colW := distribute(m.colW, m.fillCol, m.usedCol, usableW, b.Flags&EvenX != 0)
	rowH := distribute(m.rowH, m.fillRow, m.usedRow, usableH, b.Flags&EvenY != 0)

	colX := offsets(colW, m.usedCol, final.X+b.Border, b.Spacing)
	rowY := offsets(rowH, m.usedRow, final.Y+b.Border, b.Spacing)

	for i, el := range m.cells {
		if !occupies(el) {
			continue
		}
		r, c := i/m.cols, i%m.cols
		cell := geom.Rect{X: colX[c], Y: rowY[r], Width: colW[c], Height: rowH[r]}
		switch e := el.(type) {
		case *WidgetElement:
			*out = append(*out, widget.Placement{Widget: e.Widget, Rect: cell})
		case *SubBixElement:
			e.Bix.arrange(cell, out)
		}
	}
}

// distribute turns natural track sizes into final ones. With even set,
// every occupied track gets usable/n. Otherwise positive slack is shared
// equally by the fill tracks; tracks without fill keep their natural size,
// and so does everything when there is no slack. Indivisible remainders go
// to the earliest eligible tracks one unit at a time. Unoccupied tracks are
// always zero.
func distribute(natural []int, fill, used []bool, usable int, even bool) []int {
	out := make([]int, len(natural))
	copy(out, natural)
	n := count(used)
	if n == 0 {
		return out
	}

	if even {
		usable = max(usable, 0)
		each, rem := usable/n, usable%n
		k := 0
		for i := range out {
			out[i] = 0
			if !used[i] {
				continue
			}
			out[i] = each
			if k < rem {
				out[i]++
			}
			k++
		}
		return out
	}

	slack := usable - sum(natural)
	if slack <= 0 {
		return out
	}
	var eligible []int
	for i, f := range fill {
		if f {
			eligible = append(eligible, i)
		}
	}
	if len(eligible) == 0 {
		return out
	}
	each, rem := slack/len(eligible), slack%len(eligible)
	for k, i := range eligible {
		out[i] += each
		if k < rem {
			out[i]++
		}
	}
	return out
}

// offsets returns the start of every track. Spacing separates consecutive
// occupied tracks; an unoccupied track sits at the current position.
func offsets(sizes []int, used []bool, start, spacing int) []int {
	out := make([]int, len(sizes))
	pos := start
	seen := false
	for i, s := range sizes {
		if used[i] {
			if seen {
				pos += spacing
			}
			seen = true
		}
		out[i] = pos
		pos += s
	}
	return out
}

func count(v []bool) int {
	n := 0
	for _, b := range v {
		if b {
			n++
		}
	}
	return n
}

func sum(v []int) int {
	total := 0
	for _, x := range v {
		total += x
	}
	return total
}

// String renders the Bix in its text grammar, with '%' for each widget.
func (b *Bix) String() string {
	var sb strings.Builder
	b.write(&sb)
	return sb.String()
}

func (b *Bix) write(sb *strings.Builder) {
	writeMods(sb, b.Flags)
	switch b.Kind {
	case Row:
		sb.WriteString("X[")
	case Column:
		sb.WriteString("Y[")
	default:
		sb.WriteString("XY")
		if b.Columns > 0 {
			fmt.Fprintf(sb, "%d", b.Columns)
		}
		sb.WriteString("[")
	}
	// Matrices with a column count are written row by row, which also
	// drops the pads of short rows.
	rowWise := b.Kind == Matrix && b.Columns > 0
	first := true
	for i, el := range b.elements {
		if rowWise && i > 0 && i%b.Columns == 0 {
			sb.WriteString(";")
			first = true
		}
		if _, pad := el.(padElement); pad {
			continue
		}
		if !first {
			sb.WriteString(",")
		}
		first = false
		switch e := el.(type) {
		case *WidgetElement:
			writeMods(sb, e.Flags)
			sb.WriteString("%")
		case *SubBixElement:
			e.Bix.write(sb)
		}
	}
	sb.WriteString("]")
}

func writeMods(sb *strings.Builder, f Flags) {
	writeAxisMod(sb, 'e', f&EvenX != 0, f&EvenY != 0)
	writeAxisMod(sb, 'f', f&FillX != 0, f&FillY != 0)
}

func writeAxisMod(sb *strings.Builder, prefix byte, x, y bool) {
	switch {
	case x && y:
		sb.WriteByte(prefix)
	case x:
		sb.WriteByte(prefix)
		sb.WriteByte('x')
	case y:
		sb.WriteByte(prefix)
		sb.WriteByte('y')
	}
}
