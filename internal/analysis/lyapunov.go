package analysis

import (
	"math"

	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/target"
)

// Divergence estimates how fast two copies of f drift apart when the first
// agent of one copy is shifted by perturbation along X. It returns the mean
// log growth of the phase-space separation per frame; positive values mean
// small differences in spawn grow into different formations.
//
// f itself is not stepped.
func Divergence(f *flock.Flock, path target.Path, frames int, perturbation float64) (float64, error) {
	if f.Len() == 0 || frames <= 0 || perturbation <= 0 {
		return 0, nil
	}

	snap := f.Snapshot()
	base, err := flock.Restore(snap)
	if err != nil {
		return 0, err
	}
	snap.Positions[0].X += perturbation
	pert, err := flock.Restore(snap)
	if err != nil {
		return 0, err
	}

	d0 := perturbation
	sumLog := 0.0
	count := 0

	for frame := 0; frame < frames; frame++ {
		tgt := path.At(frame)
		base.Step(tgt)
		pert.Step(tgt)

		sep := separation(base, pert)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		// Pull the copy back to d0 so each frame measures one step of growth.
		pert, err = rescale(base, pert, d0/sep)
		if err != nil {
			return 0, err
		}
	}

	if count == 0 {
		return 0, nil
	}
	return sumLog / float64(count), nil
}

func separation(a, b *flock.Flock) float64 {
	sum := 0.0
	for i := 0; i < a.Len(); i++ {
		sum += b.Position(i).Sub(a.Position(i)).LenSq()
		sum += b.Velocity(i).Sub(a.Velocity(i)).LenSq()
	}
	return math.Sqrt(sum)
}

// rescale pulls b toward a so that their separation shrinks by scale.
func rescale(a, b *flock.Flock, scale float64) (*flock.Flock, error) {
	s := b.Snapshot()
	for i := range s.Positions {
		pa, va := a.Position(i), a.Velocity(i)
		s.Positions[i] = pa.Add(s.Positions[i].Sub(pa).Scale(scale))
		s.Velocities[i] = va.Add(s.Velocities[i].Sub(va).Scale(scale))
	}
	return flock.Restore(s)
}
