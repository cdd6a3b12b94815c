package viz

import (
	"math"
	"strings"

	"github.com/san-kum/boidsim/internal/flock"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

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
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set turns on the pixel at (x, y) in sub-pixel coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a pixel.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// Clear resets the canvas.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// Fill sets a (2r+1)x(2r+1) block of pixels centered on (x, y).
func (c *Canvas) Fill(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Cross draws a plus sign with arms of length r.
func (c *Canvas) Cross(x, y, r int) {
	c.DrawLine(x-r, y, x+r, y)
	c.DrawLine(x, y-r, x, y+r)
}

// Viewport maps a rectangle of world coordinates onto a canvas. World Y
// grows downward, as on screen.
type Viewport struct {
	Min, Max flock.Vec2
}

// FitViewport returns a viewport around lo..hi padded by pad on each side
// of every axis, as a fraction of the span.
func FitViewport(lo, hi flock.Vec2, pad float64) Viewport {
	if hi.X < lo.X {
		lo.X, hi.X = hi.X, lo.X
	}
	if hi.Y < lo.Y {
		lo.Y, hi.Y = hi.Y, lo.Y
	}
	if hi.X == lo.X {
		lo.X, hi.X = lo.X-0.5, hi.X+0.5
	}
	if hi.Y == lo.Y {
		lo.Y, hi.Y = lo.Y-0.5, hi.Y+0.5
	}
	w, h := hi.X-lo.X, hi.Y-lo.Y
	return Viewport{
		Min: flock.Vec2{X: lo.X - w*pad, Y: lo.Y - h*pad},
		Max: flock.Vec2{X: hi.X + w*pad, Y: hi.Y + h*pad},
	}
}

// Project returns the sub-pixel of c that p falls on. Points outside the
// viewport map outside the canvas and are clipped by Set.
func (v Viewport) Project(c *Canvas, p flock.Vec2) (int, int) {
	cw, ch := float64(c.Width*2-1), float64(c.Height*4-1)
	x := (p.X - v.Min.X) / (v.Max.X - v.Min.X) * cw
	y := (p.Y - v.Min.Y) / (v.Max.Y - v.Min.Y) * ch
	return int(math.Round(x)), int(math.Round(y))
}

// Pan shifts the viewport by d world units.
func (v Viewport) Pan(d flock.Vec2) Viewport {
	return Viewport{Min: v.Min.Add(d), Max: v.Max.Add(d)}
}
