package viz

import (
	"github.com/guptarohit/asciigraph"
)

// PlotSeries renders one metric series as an asciigraph line chart. Series
// longer than width are resampled by asciigraph.
func PlotSeries(name string, values []float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(name),
	)
}

// PlotSweep charts y against evenly spaced sweep steps.
func PlotSweep(caption string, ys []float64, width, height int) string {
	if len(ys) == 0 {
		return ""
	}
	return asciigraph.Plot(ys,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.Precision(4),
	)
}
