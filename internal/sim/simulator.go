package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/target"
)

// Runner is a headless host: it steps a flock once per frame against a
// target path and applies the engagement model.
type Runner struct {
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func New() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.New(io.Discard),
	}
}

func (r *Runner) AddMetric(m Metric)      { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer)  { r.observers = append(r.observers, o) }
func (r *Runner) SetLogger(l *log.Logger) { r.logger = l }
func (r *Runner) Metrics() []Metric       { return r.metrics }

// Run advances f for cfg.Frames frames. f is mutated in place. On context
// cancellation the partial result is returned along with ctx.Err().
func (r *Runner) Run(ctx context.Context, f *flock.Flock, path target.Path, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Frames/cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
		Series:  make(map[string][]float64),
	}
	eng := NewEngagement(cfg.Hits)

	for _, m := range r.metrics {
		m.Reset()
	}

	r.logger.Info("run started", "agents", f.Len(), "frames", cfg.Frames)

	var runErr error
	for frame := 0; frame < cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		tgt := path.At(frame)
		f.Step(tgt)

		if cfg.ValidateState && !f.Finite() {
			runErr = &FrameError{Frame: frame, Wrapped: ErrNonFinite}
			r.logger.Error("invalid state", "frame", frame)
			break
		}

		r.engage(eng, f, tgt, frame)

		for _, m := range r.metrics {
			m.Observe(f, tgt, frame)
		}
		for _, obs := range r.observers {
			obs.OnFrame(f, tgt, frame)
		}

		if frame%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, Frame{
				Index:     frame,
				Target:    tgt,
				Positions: f.Positions(),
				IDs:       f.IDs(),
			})
		}
		result.FramesRun++
	}

	eng.fill(result)
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
		if sm, ok := m.(SeriesMetric); ok {
			result.Series[m.Name()] = sm.Series()
		}
	}
	result.Final = f.Snapshot()

	r.logger.Info("run finished",
		"frames", result.FramesRun,
		"survivors", f.Len(),
		"score", result.Score,
		"health", result.Health,
	)

	return result, runErr
}

func validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.SampleEvery < 1 {
		return fmt.Errorf("sample interval must be at least 1, got %d", cfg.SampleEvery)
	}
	if cfg.Hits.ShotEvery < 0 {
		return fmt.Errorf("shot interval must be non-negative, got %d", cfg.Hits.ShotEvery)
	}
	return nil
}
