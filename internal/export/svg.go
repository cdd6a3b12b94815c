// Package export renders stored runs as standalone SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/sim"
	"github.com/san-kum/boidsim/internal/viz"
)

// TrajectoryToSVG draws points as a polyline fitted to width x height.
func TrajectoryToSVG(points []flock.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	lo, hi := bounds(points)
	view := viz.FitViewport(lo, hi, 0.1)
	rangeX := view.Max.X - view.Min.X
	rangeY := view.Max.Y - view.Min.Y

	var sb strings.Builder
	writeHeader(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x := (p.X - view.Min.X) / rangeX * float64(width)
		y := (p.Y - view.Min.Y) / rangeY * float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// FrameToSVG draws one sampled frame: agents as dots and the target as a
// ring, mapped through view onto a width x height image.
func FrameToSVG(fr sim.Frame, view viz.Viewport, width, height int) string {
	rangeX := view.Max.X - view.Min.X
	rangeY := view.Max.Y - view.Min.Y
	project := func(p flock.Vec2) (float64, float64) {
		return (p.X - view.Min.X) / rangeX * float64(width),
			(p.Y - view.Min.Y) / rangeY * float64(height)
	}

	var sb strings.Builder
	writeHeader(&sb, width, height)

	sb.WriteString(`<g fill="#00ffff">
`)
	for _, p := range fr.Positions {
		x, y := project(p)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3"/>
`, x, y))
	}
	sb.WriteString("</g>\n")

	tx, ty := project(fr.Target)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="8" fill="none" stroke="#ff00ff" stroke-width="2"/>
`, tx, ty))
	sb.WriteString(fmt.Sprintf(`<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">frame %d  agents %d</text>
`, fr.Index, len(fr.Positions)))
	sb.WriteString("</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

func bounds(points []flock.Vec2) (lo, hi flock.Vec2) {
	lo, hi = points[0], points[0]
	for _, p := range points {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
	}
	return lo, hi
}

// FrameBounds returns the box covering every agent and target across frames.
func FrameBounds(frames []sim.Frame) (lo, hi flock.Vec2) {
	pts := make([]flock.Vec2, 0)
	for _, fr := range frames {
		pts = append(pts, fr.Target)
		pts = append(pts, fr.Positions...)
	}
	if len(pts) == 0 {
		return flock.Vec2{}, flock.Vec2{}
	}
	return bounds(pts)
}
