package metrics

import (
	"github.com/san-kum/boidsim/internal/flock"
)

// SteeringEffort is the mean per-agent velocity change between consecutive
// frames. Agents are matched by id so removals do not register as effort.
type SteeringEffort struct {
	series
	prev map[uint64]flock.Vec2
}

func NewSteeringEffort() *SteeringEffort {
	return &SteeringEffort{
		series: series{name: "steering_effort"},
		prev:   make(map[uint64]flock.Vec2),
	}
}

func (s *SteeringEffort) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	sum, matched := 0.0, 0
	next := make(map[uint64]flock.Vec2, f.Len())
	for i := 0; i < f.Len(); i++ {
		id, v := f.ID(i), f.Velocity(i)
		if old, ok := s.prev[id]; ok {
			sum += v.Sub(old).Len()
			matched++
		}
		next[id] = v
	}
	s.prev = next
	if matched == 0 {
		return
	}
	s.record(sum / float64(matched))
}

func (s *SteeringEffort) Reset() {
	s.series.Reset()
	s.prev = make(map[uint64]flock.Vec2)
}
