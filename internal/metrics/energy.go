package metrics

import (
	"github.com/san-kum/boidsim/internal/flock"
)

// Energy is the mean kinetic energy per agent, 0.5*|v|^2 with unit mass.
type Energy struct {
	series
}

func NewEnergy() *Energy {
	return &Energy{series: series{name: "energy"}}
}

func (e *Energy) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	n := f.Len()
	if n == 0 {
		e.record(0)
		return
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += 0.5 * f.Velocity(i).LenSq()
	}
	e.record(total / float64(n))
}

// Speed is the mean agent speed.
type Speed struct {
	series
}

func NewSpeed() *Speed {
	return &Speed{series: series{name: "speed"}}
}

func (s *Speed) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	n := f.Len()
	if n == 0 {
		s.record(0)
		return
	}
	total := 0.0
	for i := 0; i < n; i++ {
		total += f.Velocity(i).Len()
	}
	s.record(total / float64(n))
}
