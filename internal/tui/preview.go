package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/wintk/internal/geom"
	"github.com/1broseidon/wintk/internal/layout"
)

// Sketch scales rects from final onto a cols x rows character grid and draws
// each as a numbered box. Lines carry no trailing spaces.
func Sketch(rects []geom.Rect, final geom.Rect, cols, rows int) []string {
	if cols < 1 || rows < 1 {
		return nil
	}
	fw, fh := max(final.Width, 1), max(final.Height, 1)
	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
	}

	for i, r := range rects {
		x0 := (r.X - final.X) * cols / fw
		y0 := (r.Y - final.Y) * rows / fh
		x1 := min((r.X-final.X+r.Width)*cols/fw-1, cols-1)
		y1 := min((r.Y-final.Y+r.Height)*rows/fh-1, rows-1)
		if x0 < 0 || y0 < 0 || x1 < x0 || y1 < y0 {
			continue
		}
		for x := x0; x <= x1; x++ {
			grid[y0][x], grid[y1][x] = '-', '-'
		}
		for y := y0; y <= y1; y++ {
			grid[y][x0], grid[y][x1] = '|', '|'
		}
		grid[y0][x0], grid[y0][x1], grid[y1][x0], grid[y1][x1] = '+', '+', '+', '+'

		label := []rune(strconv.Itoa(i + 1))
		if x1-x0-1 >= len(label) && y1-y0 >= 2 {
			cy := (y0 + y1) / 2
			cx := (x0+x1)/2 - len(label)/2
			copy(grid[cy][cx:], label)
		}
	}

	out := make([]string, rows)
	for y := range grid {
		out[y] = strings.TrimRight(string(grid[y]), " ")
	}
	return out
}

// arrangement is a preset laid out at a fixed size.
type arrangement struct {
	final    geom.Rect
	measured geom.Size
	rects    []geom.Rect
}

// arrange builds p and lays it out in final. A zero width or height falls
// back to the measured one.
func arrange(p layout.Preset, opts layout.ParseOptions, final geom.Rect) (arrangement, error) {
	b, leaves, err := p.Build(opts)
	if err != nil {
		return arrangement{}, err
	}
	a := arrangement{measured: b.Measure(nil, nil, geom.Size{}), final: final}
	if a.final.Width == 0 {
		a.final.Width = a.measured.Width
	}
	if a.final.Height == 0 {
		a.final.Height = a.measured.Height
	}
	a.rects = layout.LeafRects(b, leaves, a.final)
	return a, nil
}

func summarize(a arrangement) string {
	if len(a.rects) == 0 {
		return "no cells"
	}

	minW, minH := a.rects[0].Width, a.rects[0].Height
	maxW, maxH := minW, minH
	for _, r := range a.rects[1:] {
		minW, minH = min(minW, r.Width), min(minH, r.Height)
		maxW, maxH = max(maxW, r.Width), max(maxH, r.Height)
	}

	head := fmt.Sprintf("%d cells • natural %d×%d", len(a.rects), a.measured.Width, a.measured.Height)
	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%s • %d×%d each", head, minW, minH)
	}
	return fmt.Sprintf("%s • min %d×%d • max %d×%d", head, minW, minH, maxW, maxH)
}

// fitSizes returns sizes resized to n entries. New entries repeat the last
// size, or are zero when there is none.
func fitSizes(sizes []geom.Size, n int) []geom.Size {
	out := make([]geom.Size, n)
	copy(out, sizes)
	for i := len(sizes); i < n; i++ {
		if i > 0 {
			out[i] = out[i-1]
		}
	}
	return out
}
