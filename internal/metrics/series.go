package metrics

import "gonum.org/v1/gonum/stat"

// series records one sample per observed frame. Metrics embed it so the
// run store and the spectrum analysis can read the full history.
type series struct {
	name    string
	samples []float64
}

func (s *series) Name() string { return s.name }

// Value is the mean over all recorded frames, zero before the first one.
func (s *series) Value() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return stat.Mean(s.samples, nil)
}

func (s *series) Reset() { s.samples = s.samples[:0] }

// Series returns a copy of the per-frame samples.
func (s *series) Series() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *series) record(v float64) { s.samples = append(s.samples, v) }
