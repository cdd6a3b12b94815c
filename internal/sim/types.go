package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/boidsim/internal/flock"
)

// ErrNonFinite indicates a position or velocity became NaN or Inf.
var ErrNonFinite = errors.New("sim: non-finite flock state")

// ErrNoTarget is returned by a shot with no agent in range.
var ErrNoTarget = errors.New("sim: no agent in range")

// Metric observes the flock after each frame.
type Metric interface {
	Name() string
	Observe(f *flock.Flock, target flock.Vec2, frame int)
	Value() float64
	Reset()
}

// SeriesMetric is a Metric that keeps its per-frame history.
type SeriesMetric interface {
	Metric
	Series() []float64
}

// Observer is notified after every frame. The flock must not be mutated.
type Observer interface {
	OnFrame(f *flock.Flock, target flock.Vec2, frame int)
}

type Config struct {
	Frames        int
	SampleEvery   int
	ValidateState bool
	Hits          HitConfig
}

// HitConfig is the player/flock engagement model of the original game:
// agents touching the player drain health, and the player periodically
// shoots the nearest agent in range.
type HitConfig struct {
	ContactRadius float64
	Damage        float64 // added to health per touching agent per frame
	Health        float64
	ShotEvery     int     // frames between shots, 0 disables shooting
	ShotRange     float64 // 0 means unlimited
}

func DefaultConfig() Config {
	return Config{
		Frames:        600,
		SampleEvery:   1,
		ValidateState: true,
	}
}

// Frame is a sampled copy of the flock at one frame.
type Frame struct {
	Index     int          `json:"index"`
	Target    flock.Vec2   `json:"target"`
	Positions []flock.Vec2 `json:"positions"`
	IDs       []uint64     `json:"ids"`
}

type Result struct {
	Frames    []Frame
	Metrics   map[string]float64
	Series    map[string][]float64
	Score     int
	Health    float64
	Contacts  int
	Removed   []uint64
	FramesRun int
	Final     flock.Snapshot
}

// FrameError reports the frame at which a run failed.
type FrameError struct {
	Frame   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %v", e.Frame, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
