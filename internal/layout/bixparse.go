package layout

import (
	"fmt"
	"strconv"

	"github.com/1broseidon/wintk/internal/widget"
)

// ParseError reports a malformed Bix description. Line and Column are
// 1-based; Index is the byte offset into the source.
type ParseError struct {
	Msg    string
	Line   int
	Column int
	Index  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bix: %s at line %d, column %d (offset %d)", e.Msg, e.Line, e.Column, e.Index)
}

// ParseOptions sets spacing and border for a parsed Bix. Spacing applies to
// every level; Border applies to the outermost Bix only.
type ParseOptions struct {
	Spacing int
	Border  int
}

// ParseBix builds a Bix from its text form, binding each '%' placeholder to the
// next widget in order. The number of placeholders must equal len(widgets).
//
//	X[%,f%,%]          row, middle widget absorbs horizontal slack
//	Y[%,X[%,%]]        column with a nested row
//	eXY2[%,%;%,%]      2x2 matrix with even rows and columns
func ParseBix(src string, opts ParseOptions, widgets ...widget.Widget) (*Bix, error) {
	p := &parser{src: src, line: 1, col: 1, widgets: widgets}
	p.skipSpace()
	mods, err := p.mods()
	if err != nil {
		return nil, err
	}
	root, err := p.bix(mods, opts.Spacing)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after layout", p.peek())
	}
	if p.next != len(widgets) {
		return nil, p.errorf("%d widgets supplied for %d placeholders", len(widgets), p.next)
	}
	root.Border = opts.Border
	return root, nil
}

// MustParseBix is like ParseBix but panics on error. Use it for layouts fixed at
// compile time.
func MustParseBix(src string, opts ParseOptions, widgets ...widget.Widget) *Bix {
	b, err := ParseBix(src, opts, widgets...)
	if err != nil {
		panic(err)
	}
	return b
}

// Placeholders counts the '%' placeholders in src without validating it.
func Placeholders(src string) int {
	n := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '%' {
			n++
		}
	}
	return n
}

type parser struct {
	src       string
	pos       int
	line, col int

	widgets []widget.Widget
	next    int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) advance() {
	if p.eof() {
		return
	}
	if p.src[p.pos] == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	p.pos++
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.advance()
		default:
			return
		}
	}
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Line: p.line, Column: p.col, Index: p.pos}
}

// mods reads a run of 'f', 'fx', 'fy', 'e', 'ex', 'ey'. A bare 'f' or 'e'
// sets both axes.
func (p *parser) mods() (Flags, error) {
	var f Flags
	for {
		p.skipSpace()
		c := p.peek()
		if c != 'f' && c != 'e' {
			return f, nil
		}
		p.advance()
		x, y := true, true
		switch p.peek() {
		case 'x':
			y = false
			p.advance()
		case 'y':
			x = false
			p.advance()
		}
		switch c {
		case 'f':
			if x {
				f |= FillX
			}
			if y {
				f |= FillY
			}
		case 'e':
			if x {
				f |= EvenX
			}
			if y {
				f |= EvenY
			}
		}
	}
}

func (p *parser) bix(mods Flags, spacing int) (*Bix, error) {
	p.skipSpace()
	b := &Bix{Flags: mods, Spacing: spacing}
	switch p.peek() {
	case 'X':
		p.advance()
		if p.peek() == 'Y' {
			p.advance()
			b.Kind = Matrix
			start := p.pos
			for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
				p.advance()
			}
			if p.pos > start {
				n, err := strconv.Atoi(p.src[start:p.pos])
				if err != nil || n <= 0 {
					return nil, p.errorf("invalid matrix column count %q", p.src[start:p.pos])
				}
				b.Columns = n
			}
		} else {
			b.Kind = Row
		}
	case 'Y':
		p.advance()
		b.Kind = Column
	case 0:
		return nil, p.errorf("expected 'X', 'Y' or 'XY', found end of input")
	default:
		return nil, p.errorf("expected 'X', 'Y' or 'XY', found %q", p.peek())
	}

	p.skipSpace()
	if p.peek() != '[' {
		if p.eof() {
			return nil, p.errorf("expected '[', found end of input")
		}
		return nil, p.errorf("expected '[', found %q", p.peek())
	}
	p.advance()

	rows := [][]Element{nil}
	p.skipSpace()
	if p.peek() == ']' {
		p.advance()
		return b, nil
	}
	for {
		el, err := p.element(spacing)
		if err != nil {
			return nil, err
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], el)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.advance()
		case ';':
			if b.Kind != Matrix {
				return nil, p.errorf("row separator ';' is only valid in a matrix")
			}
			p.advance()
			rows = append(rows, nil)
		case ']':
			p.advance()
			return b, p.finishRows(b, rows)
		case 0:
			return nil, p.errorf("unterminated layout, expected ']'")
		default:
			return nil, p.errorf("expected ',', ';' or ']', found %q", p.peek())
		}
	}
}

// finishRows flattens explicit matrix rows into the element list, padding
// short rows so each starts on a new row of the grid.
func (p *parser) finishRows(b *Bix, rows [][]Element) error {
	if len(rows) == 1 {
		b.elements = rows[0]
		return nil
	}
	cols := b.Columns
	if cols == 0 {
		for _, r := range rows {
			cols = max(cols, len(r))
		}
		b.Columns = cols
	}
	for i, r := range rows {
		if len(r) == 0 {
			return p.errorf("matrix row %d is empty", i+1)
		}
		if len(r) > cols {
			return p.errorf("matrix row %d has %d cells, matrix has %d columns", i+1, len(r), cols)
		}
		b.elements = append(b.elements, r...)
		if i < len(rows)-1 {
			for k := len(r); k < cols; k++ {
				b.elements = append(b.elements, padElement{})
			}
		}
	}
	return nil
}

func (p *parser) element(spacing int) (Element, error) {
	p.skipSpace()
	start := *p
	mods, err := p.mods()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	switch p.peek() {
	case '%':
		if mods&EvenXY != 0 {
			return nil, start.errorf("even modifier applies to layouts, not widgets")
		}
		if p.next >= len(p.widgets) {
			return nil, p.errorf("placeholder %d has no widget, %d supplied", p.next+1, len(p.widgets))
		}
		w := p.widgets[p.next]
		if w == nil {
			return nil, p.errorf("widget %d is nil", p.next+1)
		}
		p.next++
		p.advance()
		return &WidgetElement{Widget: w.Wrappee(), Flags: mods}, nil
	case 'X', 'Y':
		sub, err := p.bix(mods, spacing)
		if err != nil {
			return nil, err
		}
		return &SubBixElement{Bix: sub}, nil
	case 0:
		return nil, p.errorf("expected '%%' or a nested layout, found end of input")
	default:
		return nil, p.errorf("expected '%%' or a nested layout, found %q", p.peek())
	}
}
