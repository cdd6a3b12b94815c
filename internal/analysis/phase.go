package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/boidsim/internal/flock"
)

// TrailToASCII plots points on a width x height character grid. Bounds are
// fitted to the points with 10% padding; the last point is drawn as '@'.
func TrailToASCII(points []flock.Vec2, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	padX := (maxX - minX) * 0.1
	padY := (maxY - minY) * 0.1
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	minX, maxX = minX-padX, maxX+padX
	minY, maxY = minY-padY, maxY+padY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p flock.Vec2) (int, int) {
		x := int((p.X - minX) / (maxX - minX) * float64(width-1))
		y := int((p.Y - minY) / (maxY - minY) * float64(height-1))
		return x, y
	}

	for i, p := range points {
		x, y := cell(p)
		if x < 0 || x >= width || y < 0 || y >= height {
			continue
		}
		if i == len(points)-1 {
			canvas[y][x] = '@'
		} else {
			canvas[y][x] = '•'
		}
	}

	var sb strings.Builder
	for i, row := range canvas {
		sb.WriteString(string(row))
		if i < len(canvas)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
