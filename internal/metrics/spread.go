package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/boidsim/internal/flock"
)

// Spread is the mean distance of agents from the flock centroid.
type Spread struct {
	series
}

func NewSpread() *Spread {
	return &Spread{series: series{name: "spread"}}
}

func (s *Spread) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	s.record(SpreadOf(f))
}

// SpreadOf is the current mean distance to the centroid, 0 for an empty
// flock.
func SpreadOf(f *flock.Flock) float64 {
	n := f.Len()
	if n == 0 {
		return 0
	}
	c := f.Centroid()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = f.Position(i).Sub(c).Len()
	}
	return stat.Mean(dist, nil)
}

// Polarization is the length of the mean unit heading, 1 when every agent
// flies the same way and near 0 for a disordered flock. Stationary agents
// are skipped.
type Polarization struct {
	series
}

func NewPolarization() *Polarization {
	return &Polarization{series: series{name: "polarization"}}
}

func (p *Polarization) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	p.record(PolarizationOf(f))
}

// PolarizationOf is the current polarization of f.
func PolarizationOf(f *flock.Flock) float64 {
	hx := make([]float64, 0, f.Len())
	hy := make([]float64, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		v := f.Velocity(i)
		l := v.Len()
		if l == 0 {
			continue
		}
		hx = append(hx, v.X/l)
		hy = append(hy, v.Y/l)
	}
	if len(hx) == 0 {
		return 0
	}
	n := float64(len(hx))
	mean := flock.Vec2{X: floats.Sum(hx) / n, Y: floats.Sum(hy) / n}
	return mean.Len()
}
