package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/boidsim/internal/config"
	"github.com/san-kum/boidsim/internal/metrics"
	"github.com/san-kum/boidsim/internal/sim"
)

// containFactor scales the spawn box diagonal into the containment radius.
const containFactor = 0.25

type Registry struct {
	metrics map[string]func(cfg *config.Config) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(cfg *config.Config) sim.Metric),
	}

	r.metrics["spread"] = func(*config.Config) sim.Metric { return metrics.NewSpread() }
	r.metrics["polarization"] = func(*config.Config) sim.Metric { return metrics.NewPolarization() }
	r.metrics["speed"] = func(*config.Config) sim.Metric { return metrics.NewSpeed() }
	r.metrics["energy"] = func(*config.Config) sim.Metric { return metrics.NewEnergy() }
	r.metrics["steering_effort"] = func(*config.Config) sim.Metric { return metrics.NewSteeringEffort() }
	r.metrics["target_distance"] = func(*config.Config) sim.Metric { return metrics.NewTargetDistance() }
	r.metrics["survivors"] = func(*config.Config) sim.Metric { return metrics.NewSurvivors() }
	r.metrics["containment"] = func(cfg *config.Config) sim.Metric {
		lo, hi := cfg.Spawn.Bounds()
		return metrics.NewContainment(hi.Sub(lo).Len() * containFactor)
	}

	return r
}

func (r *Registry) GetMetric(name string, cfg *config.Config) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(cfg), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
