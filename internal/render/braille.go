package render

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"worldmap/internal/geom"
)

// BrailleSurface draws into terminal cells using braille patterns, so each
// cell holds a 2x4 grid of dots. One logical pixel is one dot.
type BrailleSurface struct {
	w, h  int // in cells
	cells [][]brailleCell
	bg    colorful.Color
}

type brailleCell struct {
	mask  uint8
	fg    colorful.Color
	text  rune
	textC colorful.Color
}

// dot bit for column rx (0-1) and row ry (0-3) within a cell
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// NewBrailleSurface makes a surface of cols×rows terminal cells.
func NewBrailleSurface(cols, rows int) *BrailleSurface {
	b := &BrailleSurface{}
	b.resizeCells(cols, rows)
	return b
}

func (b *BrailleSurface) resizeCells(cols, rows int) {
	b.w, b.h = max(cols, 0), max(rows, 0)
	b.cells = make([][]brailleCell, b.h)
	for i := range b.cells {
		b.cells[i] = make([]brailleCell, b.w)
	}
}

// Cells is the surface size in terminal cells.
func (b *BrailleSurface) Cells() (cols, rows int) { return b.w, b.h }

func (b *BrailleSurface) Size() (w, h float64) { return float64(b.w * 2), float64(b.h * 4) }

// Resize takes logical dot dimensions. Terminals have no pixel density, so
// the ratio is ignored.
func (b *BrailleSurface) Resize(w, h, _ float64) {
	cols, rows := int(math.Ceil(w/2)), int(math.Ceil(h/4))
	if cols == b.w && rows == b.h {
		return
	}
	b.resizeCells(cols, rows)
}

func (b *BrailleSurface) Clear(bg colorful.Color) {
	b.bg = bg
	for y := range b.cells {
		clear(b.cells[y])
	}
}

// setDot sets a dot at micro coords (2x4 per cell).
func (b *BrailleSurface) setDot(mx, my int, c colorful.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	cell := &b.cells[cy][cx]
	cell.mask |= brailleBits[mx%2][my%4]
	cell.fg = c
}

// drawLine draws a line on the microgrid using Bresenham.
func (b *BrailleSurface) drawLine(x0, y0, x1, y1 int, c colorful.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setDot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
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

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (b *BrailleSurface) dot(p geom.Coordinate) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// segment draws a–e after clipping it to the dot grid (Liang-Barsky), so
// far off-screen endpoints neither skew the line nor cost a long walk.
func (b *BrailleSurface) segment(a, e geom.Coordinate, c colorful.Color) {
	minX, minY := -1.0, -1.0
	maxX, maxY := float64(b.w*2)+1, float64(b.h*4)+1
	d := e.Sub(a)
	t0, t1 := 0.0, 1.0
	for _, edge := range [4][2]float64{
		{-d.X, a.X - minX},
		{d.X, maxX - a.X},
		{-d.Y, a.Y - minY},
		{d.Y, maxY - a.Y},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return
		}
	}
	x0, y0 := b.dot(a.Add(d.Scale(t0)))
	x1, y1 := b.dot(a.Add(d.Scale(t1)))
	b.drawLine(x0, y0, x1, y1, c)
}

// FillPolygon fills with the even-odd rule, scanning dot rows. Terminal
// cells have one foreground colour, so alpha blends fill over background.
func (b *BrailleSurface) FillPolygon(pts []geom.Coordinate, fill colorful.Color, alpha float64) {
	if len(pts) < 3 {
		return
	}
	c := b.bg.BlendRgb(fill, clamp01(alpha))
	bb := geom.BoundsOf(pts)
	y0 := max(0, int(math.Floor(bb.MinY)))
	y1 := min(b.h*4-1, int(math.Ceil(bb.MaxY)))
	xs := make([]float64, 0, 8)
	for my := y0; my <= y1; my++ {
		yc := float64(my) + 0.5
		xs = xs[:0]
		for i := range pts {
			a, e := pts[i], pts[(i+1)%len(pts)]
			if a.Y == e.Y {
				continue
			}
			if (yc >= a.Y && yc < e.Y) || (yc >= e.Y && yc < a.Y) {
				t := (yc - a.Y) / (e.Y - a.Y)
				xs = append(xs, a.X+t*(e.X-a.X))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			start := max(0, int(math.Ceil(xs[i]-0.5)))
			end := min(b.w*2-1, int(math.Floor(xs[i+1]-0.5)))
			for mx := start; mx <= end; mx++ {
				b.setDot(mx, my, c)
			}
		}
	}
}

func (b *BrailleSurface) StrokePolyline(pts []geom.Coordinate, stroke colorful.Color, _ float64, closed bool) {
	if len(pts) == 1 {
		x, y := b.dot(pts[0])
		b.setDot(x, y, stroke)
		return
	}
	for i := 1; i < len(pts); i++ {
		b.segment(pts[i-1], pts[i], stroke)
	}
	if closed && len(pts) > 2 {
		b.segment(pts[len(pts)-1], pts[0], stroke)
	}
}

func (b *BrailleSurface) FillCircle(center geom.Coordinate, r float64, fill colorful.Color) {
	r = math.Max(r, 0.5)
	r2 := r * r
	for my := int(math.Floor(center.Y - r)); my <= int(math.Ceil(center.Y+r)); my++ {
		for mx := int(math.Floor(center.X - r)); mx <= int(math.Ceil(center.X+r)); mx++ {
			dx, dy := float64(mx)+0.5-center.X, float64(my)+0.5-center.Y
			if dx*dx+dy*dy <= r2 {
				b.setDot(mx, my, fill)
			}
		}
	}
}

func (b *BrailleSurface) StrokeCircle(center geom.Coordinate, r float64, stroke colorful.Color, width float64) {
	b.StrokePolyline(circlePoints(center, r), stroke, width, true)
}

// Text writes runes into whole cells, centred on at.
func (b *BrailleSurface) Text(at geom.Coordinate, s string, c colorful.Color) {
	runes := []rune(s)
	if len(runes) == 0 {
		return
	}
	cy := int(math.Floor(at.Y / 4))
	if cy < 0 || cy >= b.h {
		return
	}
	cx := int(math.Floor(at.X/2)) - len(runes)/2
	for i, r := range runes {
		x := cx + i
		if x < 0 || x >= b.w {
			continue
		}
		b.cells[cy][x].text = r
		b.cells[cy][x].textC = c
	}
}

func (b *BrailleSurface) glyph(c brailleCell) rune {
	switch {
	case c.text != 0:
		return c.text
	case c.mask != 0:
		return rune(0x2800 + int(c.mask))
	}
	return ' '
}

// Plain returns the frame without colour, one string per row.
func (b *BrailleSurface) Plain() []string {
	out := make([]string, b.h)
	for y := range b.cells {
		row := make([]rune, b.w)
		for x, c := range b.cells[y] {
			row[x] = b.glyph(c)
		}
		out[y] = string(row)
	}
	return out
}

// Lines returns the frame styled with lipgloss. Adjacent cells with the
// same colour share one styled run.
func (b *BrailleSurface) Lines() []string {
	bg := lipgloss.Color(b.bg.Hex())
	out := make([]string, b.h)
	for y := range b.cells {
		var sb strings.Builder
		var run []rune
		var runColor string
		flush := func() {
			if len(run) == 0 {
				return
			}
			st := lipgloss.NewStyle().Background(bg)
			if runColor != "" {
				st = st.Foreground(lipgloss.Color(runColor))
			}
			sb.WriteString(st.Render(string(run)))
			run = run[:0]
		}
		for _, c := range b.cells[y] {
			col := ""
			switch {
			case c.text != 0:
				col = c.textC.Hex()
			case c.mask != 0:
				col = c.fg.Hex()
			}
			if col != runColor {
				flush()
				runColor = col
			}
			run = append(run, b.glyph(c))
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// String joins Lines with newlines.
func (b *BrailleSurface) String() string { return strings.Join(b.Lines(), "\n") }

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

const circleSegments = 32

func circlePoints(center geom.Coordinate, r float64) []geom.Coordinate {
	pts := make([]geom.Coordinate, circleSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = geom.C(center.X+r*math.Cos(a), center.Y+r*math.Sin(a))
	}
	return pts
}
