package metrics

import (
	"github.com/san-kum/boidsim/internal/flock"
)

// Containment is the fraction of frames in which every agent stayed within
// radius of the target. An empty flock counts as contained.
type Containment struct {
	series
	radiusSq float64
}

func NewContainment(radius float64) *Containment {
	return &Containment{
		series:   series{name: "containment"},
		radiusSq: radius * radius,
	}
}

func (c *Containment) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	for i := 0; i < f.Len(); i++ {
		if f.Position(i).Sub(target).LenSq() > c.radiusSq {
			c.record(0)
			return
		}
	}
	c.record(1)
}

// Value is 1 before any frame is observed.
func (c *Containment) Value() float64 {
	if len(c.samples) == 0 {
		return 1.0
	}
	return c.series.Value()
}

// Survivors reports the flock size at the most recent frame.
type Survivors struct {
	series
}

func NewSurvivors() *Survivors {
	return &Survivors{series: series{name: "survivors"}}
}

func (s *Survivors) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	s.record(float64(f.Len()))
}

func (s *Survivors) Value() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[len(s.samples)-1]
}
