package analysis

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/metrics"
	"github.com/san-kum/boidsim/internal/target"
)

func TestDominantPeriod_Sinusoid(t *testing.T) {
	const n, period = 256, 32.0
	series := make([]float64, n)
	for i := range series {
		series[i] = 5 + math.Sin(2*math.Pi*float64(i)/period)
	}
	if got := DominantPeriod(series); math.Abs(got-period) > 1e-9 {
		t.Errorf("DominantPeriod = %v, want %v", got, period)
	}
}

func TestDominantPeriod_Flat(t *testing.T) {
	tests := []struct {
		name   string
		series []float64
	}{
		{"empty", nil},
		{"single", []float64{1}},
		{"constant", []float64{3, 3, 3, 3, 3, 3, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantPeriod(tt.series); got != 0 {
				t.Errorf("DominantPeriod = %v, want 0", got)
			}
		})
	}
}

func TestPowerSpectrum_Length(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 50 {
		t.Errorf("len = %d, want 50", len(ps))
	}
	if PowerSpectrum([]float64{1}) != nil {
		t.Error("expected nil spectrum for a single sample")
	}
}

func spawn(seed int64) *flock.Flock {
	rng := rand.New(rand.NewSource(seed))
	return flock.NewFlock(10, flock.Vec2{}, flock.Vec2{X: 800, Y: 600},
		flock.Vec2{Y: -5}, flock.Vec2{X: 2, Y: 3}, flock.DefaultParams(), rng)
}

func TestDivergence(t *testing.T) {
	f := spawn(1)
	before := f.Positions()
	path := target.Static{Point: flock.Vec2{X: 400, Y: 300}}

	lambda, err := Divergence(f, path, 200, 1e-6)
	if err != nil {
		t.Fatalf("Divergence: %v", err)
	}
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		t.Errorf("Divergence = %v, want finite", lambda)
	}
	after := f.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("Divergence stepped the input flock")
		}
	}
}

// Two agents at rest on the same point with negative cohesion push apart
// along the unstable mode of [[1.1 1] [0.1 1]], so the separation grows by
// its largest eigenvalue every frame.
func TestDivergence_KnownRate(t *testing.T) {
	params := flock.Params{CohesionStrength: -0.1}
	pair, err := flock.FromState(make([]flock.Vec2, 2), make([]flock.Vec2, 2), params)
	if err != nil {
		t.Fatal(err)
	}
	path := target.Static{}
	want := math.Log((2.1 + math.Sqrt(0.41)) / 2)

	long, err := Divergence(pair, path, 400, 1e-6)
	if err != nil {
		t.Fatalf("Divergence: %v", err)
	}
	if math.Abs(long-want) > 0.005 {
		t.Errorf("Divergence over 400 frames = %.4f, want %.4f", long, want)
	}

	short, err := Divergence(pair, path, 100, 1e-6)
	if err != nil {
		t.Fatalf("Divergence: %v", err)
	}
	if math.Abs(short-long) > 0.02 {
		t.Errorf("rate depends on run length: %.4f over 100 frames, %.4f over 400", short, long)
	}
}

func TestDivergence_Degenerate(t *testing.T) {
	empty, _ := flock.FromState(nil, nil, flock.DefaultParams())
	path := target.Static{}
	if got, err := Divergence(empty, path, 10, 1e-6); got != 0 || err != nil {
		t.Errorf("empty flock = %v, %v", got, err)
	}
	if got, err := Divergence(spawn(1), path, 0, 1e-6); got != 0 || err != nil {
		t.Errorf("zero frames = %v, %v", got, err)
	}
}

func TestSweep(t *testing.T) {
	path := target.Static{Point: flock.Vec2{X: 400, Y: 300}}
	cfg := SweepConfig{Param: "cohesion_strength", Min: 0, Max: 0.02, Steps: 3, Transient: 20, Record: 10}
	spread := func(f *flock.Flock, _ flock.Vec2) float64 { return metrics.SpreadOf(f) }

	points, err := Sweep(func() (*flock.Flock, error) { return spawn(3), nil }, path, cfg, spread)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}
	wantParams := []float64{0, 0.01, 0.02}
	for i, p := range points {
		if math.Abs(p.Param-wantParams[i]) > 1e-12 {
			t.Errorf("points[%d].Param = %v, want %v", i, p.Param, wantParams[i])
		}
		if len(p.Values) != 10 {
			t.Errorf("points[%d] recorded %d values, want 10", i, len(p.Values))
		}
	}
}

func TestSweep_Errors(t *testing.T) {
	path := target.Static{}
	noop := func(*flock.Flock, flock.Vec2) float64 { return 0 }
	s := func() (*flock.Flock, error) { return spawn(1), nil }

	if _, err := Sweep(s, path, SweepConfig{Param: "gravity", Steps: 2}, noop); err == nil {
		t.Error("expected error for unknown parameter")
	}
	_, err := Sweep(s, path, SweepConfig{Param: "seek_strength", Min: -1, Max: 1, Steps: 2}, noop)
	if err == nil {
		t.Error("expected error for negative parameter value")
	}

	failing := func() (*flock.Flock, error) { return nil, errors.New("no flock") }
	points, err := Sweep(failing, path, SweepConfig{Param: "seek_strength", Steps: 2}, noop)
	if err == nil || len(points) != 0 {
		t.Errorf("spawn failure: points=%d err=%v", len(points), err)
	}
}

func TestSweepPoint_Mean(t *testing.T) {
	if got := (SweepPoint{Values: []float64{1, 2, 3}}).Mean(); got != 2 {
		t.Errorf("Mean = %v, want 2", got)
	}
	if got := (SweepPoint{}).Mean(); got != 0 {
		t.Errorf("empty Mean = %v, want 0", got)
	}
}

func TestTrailToASCII(t *testing.T) {
	pts := []flock.Vec2{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 10}}
	out := TrailToASCII(pts, 20, 10)
	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10", len(lines))
	}
	if strings.Count(out, "@") != 1 {
		t.Errorf("expected exactly one head marker:\n%s", out)
	}
	if strings.Count(out, "•") != 2 {
		t.Errorf("expected two trail points:\n%s", out)
	}
	if TrailToASCII(nil, 20, 10) != "" {
		t.Error("empty input should render nothing")
	}
}
