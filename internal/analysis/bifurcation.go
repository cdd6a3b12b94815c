package analysis

import (
	"fmt"

	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/target"
)

// SweepPoint holds the measurements taken at one parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// Mean of the recorded values, or 0 when none were taken.
func (p SweepPoint) Mean() float64 {
	if len(p.Values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range p.Values {
		sum += v
	}
	return sum / float64(len(p.Values))
}

// SweepConfig describes a sweep over one named flock parameter.
type SweepConfig struct {
	Param     string
	Min, Max  float64
	Steps     int
	Transient int // frames run before recording
	Record    int // frames recorded per value
}

// Measure reduces a flock and the current target to one number.
type Measure func(f *flock.Flock, tgt flock.Vec2) float64

// Spawner builds the flock measured at one sweep value.
type Spawner func() (*flock.Flock, error)

// Sweep spawns a fresh flock for every parameter value, lets it settle for
// cfg.Transient frames and then records measure once per frame for
// cfg.Record frames.
func Sweep(spawn Spawner, path target.Path, cfg SweepConfig, measure Measure) ([]SweepPoint, error) {
	if _, err := (flock.Params{}).Get(cfg.Param); err != nil {
		return nil, err
	}
	steps := cfg.Steps
	if steps <= 1 {
		steps = 2
	}
	step := (cfg.Max - cfg.Min) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		value := cfg.Min + float64(i)*step

		f, err := spawn()
		if err != nil {
			return results, fmt.Errorf("sweep %s=%v: %w", cfg.Param, value, err)
		}
		params := f.Params()
		if err := params.Set(cfg.Param, value); err != nil {
			return results, err
		}
		if err := params.Validate(); err != nil {
			return results, fmt.Errorf("sweep %s=%v: %w", cfg.Param, value, err)
		}
		f.SetParams(params)

		frame := 0
		for ; frame < cfg.Transient; frame++ {
			f.Step(path.At(frame))
		}

		point := SweepPoint{Param: value, Values: make([]float64, 0, cfg.Record)}
		for end := frame + cfg.Record; frame < end; frame++ {
			tgt := path.At(frame)
			f.Step(tgt)
			point.Values = append(point.Values, measure(f, tgt))
		}
		results = append(results, point)
	}
	return results, nil
}
