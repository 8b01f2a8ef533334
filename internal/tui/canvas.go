package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// cell is one terminal column. A double-width rune occupies its cell (wide)
// and the next one, which holds a zero rune that render skips.
type cell struct {
	r     rune
	style styleID
	wide  bool
}

// canvas is a fixed grid of styled runes that renders to one string per frame.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int) *canvas {
	w, h = max(0, w), max(0, h)
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, st styleID) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.split(x, y)
	c.cells[y*c.w+x] = cell{r: r, style: st}
}

// setWide writes a double-width rune at (x, y) and its placeholder at x+1.
// A rune that would cross the canvas edge is replaced by a blank.
func (c *canvas) setWide(x, y int, r rune, st styleID) {
	if x < 0 || x+1 >= c.w || y < 0 || y >= c.h {
		c.set(x, y, ' ', st)
		c.set(x+1, y, ' ', st)
		return
	}
	c.split(x, y)
	c.split(x+1, y)
	i := y*c.w + x
	c.cells[i] = cell{r: r, style: st, wide: true}
	c.cells[i+1] = cell{style: st}
}

// split blanks the other half of any wide rune touching (x, y) so rows keep
// exactly c.w columns.
func (c *canvas) split(x, y int) {
	i := y*c.w + x
	switch cl := c.cells[i]; {
	case cl.wide && x+1 < c.w:
		c.cells[i+1].r = ' '
	case cl.r == 0 && x > 0:
		c.cells[i-1].r, c.cells[i-1].wide = ' ', false
	}
}

func (c *canvas) at(x, y int) cell {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return cell{}
	}
	return c.cells[y*c.w+x]
}

// line draws a Bresenham segment using a glyph chosen from the overall slope.
func (c *canvas) line(x0, y0, x1, y1 int, st styleID) {
	glyph := lineGlyph(x1-x0, y1-y0)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.set(x0, y0, glyph, st)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func lineGlyph(dx, dy int) rune {
	adx, ady := abs(dx), abs(dy)
	switch {
	case ady*2 <= adx:
		return '─'
	case adx*2 <= ady:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// box draws a rounded rectangle with label centred on its middle row. A box one
// row tall is drawn as a filled label strip.
func (c *canvas) box(x, y, w, h int, label string, border, fill styleID) {
	if w <= 0 || h <= 0 {
		return
	}
	if h < 3 {
		c.text(x, y+h/2, w, label, fill)
		for row := y; row < y+h; row++ {
			if row != y+h/2 {
				c.text(x, row, w, "", fill)
			}
		}
		return
	}
	for col := x; col < x+w; col++ {
		c.set(col, y, '─', border)
		c.set(col, y+h-1, '─', border)
	}
	for row := y + 1; row < y+h-1; row++ {
		c.set(x, row, '│', border)
		c.set(x+w-1, row, '│', border)
		c.text(x+1, row, w-2, "", fill)
	}
	c.set(x, y, '╭', border)
	c.set(x+w-1, y, '╮', border)
	c.set(x, y+h-1, '╰', border)
	c.set(x+w-1, y+h-1, '╯', border)
	c.text(x+1, y+h/2, w-2, label, fill)
}

// text writes s centred in a w-column strip at (x, y), filling the rest with
// spaces. Widths are terminal columns, so wide runes take two.
func (c *canvas) text(x, y, w int, s string, st styleID) {
	if w <= 0 {
		return
	}
	s = truncate(s, w)
	for i := 0; i < w; i++ {
		c.set(x+i, y, ' ', st)
	}
	col := x + (w-ansi.StringWidth(s))/2
	for _, r := range s {
		rw := ansi.StringWidth(string(r))
		switch {
		case rw <= 0:
			continue
		case col+rw > x+w:
			return
		case rw == 1:
			c.set(col, y, r, st)
		default:
			c.setWide(col, y, r, st)
		}
		col += rw
	}
}

// render emits each row, wrapping runs of equal style in one lipgloss render.
func (c *canvas) render() string {
	var b strings.Builder
	var run strings.Builder
	flush := func(st styleID) {
		if run.Len() == 0 {
			return
		}
		if style, ok := canvasStyles[st]; ok && st != stylePlain {
			b.WriteString(style.Render(run.String()))
		} else {
			b.WriteString(run.String())
		}
		run.Reset()
	}
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		cur := stylePlain
		for x := 0; x < c.w; x++ {
			cl := c.cells[y*c.w+x]
			if cl.r == 0 {
				continue
			}
			if cl.style != cur {
				flush(cur)
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush(cur)
	}
	return b.String()
}

// plain returns the canvas text without styling.
func (c *canvas) plain() string {
	return ansi.Strip(c.render())
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
