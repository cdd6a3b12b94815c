package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/sim"
	"github.com/san-kum/boidsim/internal/target"
)

// Experiment wires a run configuration into a flock, a target path and a
// runner with metrics attached.
type Experiment struct {
	cfg       *config.Config
	flock     *flock.Flock
	path      target.Path
	simulator *sim.Runner
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Setup spawns the flock from the configured seed and attaches the named
// metrics (all registered metrics when names is empty).
func (e *Experiment) Setup(reg *Registry, names []string, logger *log.Logger) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	f, path, r, err := Spawn(e.cfg, reg, names, e.cfg.Seed)
	if err != nil {
		return err
	}
	if logger != nil {
		r.SetLogger(logger)
	}
	e.flock, e.path, e.simulator = f, path, r
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.flock, e.path, SimConfig(e.cfg))
}

// Restore swaps the spawned flock for one rebuilt from snap so the run
// continues a stored state. Call it after Setup.
func (e *Experiment) Restore(snap flock.Snapshot) error {
	if e.simulator == nil {
		return fmt.Errorf("experiment not setup")
	}
	f, err := flock.Restore(snap)
	if err != nil {
		return err
	}
	e.flock = f
	return nil
}

func (e *Experiment) Flock() *flock.Flock { return e.flock }

// Spawn builds the flock, path and runner for one seed. It is also the
// spawner used by ensembles, so every call returns fresh metrics.
func Spawn(cfg *config.Config, reg *Registry, names []string, seed int64) (*flock.Flock, target.Path, *sim.Runner, error) {
	f, path, err := NewFlock(cfg, seed)
	if err != nil {
		return nil, nil, nil, err
	}

	r := sim.New()
	if len(names) == 0 {
		names = reg.ListMetrics()
	}
	for _, name := range names {
		m, err := reg.GetMetric(name, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		r.AddMetric(m)
	}
	return f, path, r, nil
}

// NewFlock spawns the configured flock and target path for one seed.
func NewFlock(cfg *config.Config, seed int64) (*flock.Flock, target.Path, error) {
	path, err := target.New(cfg.Target, seed)
	if err != nil {
		return nil, nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	posLo, posHi := cfg.Spawn.Bounds()
	velLo, velHi := cfg.Velocity.Bounds()
	return flock.NewFlock(cfg.Count, posLo, posHi, velLo, velHi, cfg.Params, rng), path, nil
}

// SimConfig converts a run configuration into runner settings.
func SimConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Frames:        cfg.Frames,
		SampleEvery:   cfg.SampleEvery,
		ValidateState: true,
		Hits: sim.HitConfig{
			ContactRadius: cfg.Hits.ContactRadius,
			Damage:        cfg.Hits.Damage,
			Health:        cfg.Hits.Health,
			ShotEvery:     cfg.Hits.ShotEvery,
			ShotRange:     cfg.Hits.ShotRange,
		},
	}
}
