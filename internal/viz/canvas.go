package viz

import (
	"math"
	"strings"

	"github.com/san-kum/motionsim/internal/vmath"
)

// Braille cells are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is Width x Height cells, or (Width*2) x (Height*4) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// DotsW and DotsH are the canvas size in dots.
func (c *Canvas) DotsW() int { return c.Width * 2 }
func (c *Canvas) DotsH() int { return c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, bit rune, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, 0, false
	}
	return row, col, pixelMap[y%4][x%2], true
}

// Set lights the dot at (x, y). Out-of-range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if row, col, bit, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= bit
	}
}

// IsSet reports whether the dot at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, bit, ok := c.cell(x, y)
	return ok && (c.Grid[row][col]-brailleBase)&bit != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine is Bresenham's line.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle is the midpoint circle outline. r <= 0 sets one dot.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Viewport maps a world rectangle onto a canvas, y up.
type Viewport struct {
	Min, Max vmath.Vec2
}

func DefaultViewport() Viewport {
	return Viewport{Min: vmath.V2(-120, -120), Max: vmath.V2(120, 120)}
}

// Include grows the viewport to contain p plus a margin.
func (v *Viewport) Include(p vmath.Vec2) {
	if !p.IsValid() {
		return
	}
	const margin = 10
	v.Min.X = math.Min(v.Min.X, p.X-margin)
	v.Min.Y = math.Min(v.Min.Y, p.Y-margin)
	v.Max.X = math.Max(v.Max.X, p.X+margin)
	v.Max.Y = math.Max(v.Max.Y, p.Y+margin)
}

// Project converts world p to canvas dots.
func (v Viewport) Project(c *Canvas, p vmath.Vec2) (int, int) {
	w, h := v.Max.X-v.Min.X, v.Max.Y-v.Min.Y
	if w <= 0 || h <= 0 {
		return -1, -1
	}
	x := (p.X - v.Min.X) / w * float64(c.DotsW()-1)
	y := (v.Max.Y - p.Y) / h * float64(c.DotsH()-1)
	return int(math.Round(x)), int(math.Round(y))
}

// Unproject converts canvas dots back to world space.
func (v Viewport) Unproject(c *Canvas, x, y int) vmath.Vec2 {
	fx := float64(x) / float64(max(c.DotsW()-1, 1))
	fy := float64(y) / float64(max(c.DotsH()-1, 1))
	return vmath.V2(
		v.Min.X+fx*(v.Max.X-v.Min.X),
		v.Max.Y-fy*(v.Max.Y-v.Min.Y),
	)
}

// Scale is dots per world unit along x.
func (v Viewport) Scale(c *Canvas) float64 {
	w := v.Max.X - v.Min.X
	if w <= 0 {
		return 1
	}
	return float64(c.DotsW()-1) / w
}
