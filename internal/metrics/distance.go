package metrics

import (
	"github.com/san-kum/boidsim/internal/flock"
)

// TargetDistance is the distance from the flock centroid to the target.
// Its series oscillates as the flock overshoots and swings back, which is
// what the spectrum analysis looks at.
type TargetDistance struct {
	series
}

func NewTargetDistance() *TargetDistance {
	return &TargetDistance{series: series{name: "target_distance"}}
}

func (d *TargetDistance) Observe(f *flock.Flock, target flock.Vec2, frame int) {
	if f.Len() == 0 {
		return
	}
	d.record(f.Centroid().Sub(target).Len())
}
