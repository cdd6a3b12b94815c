package sim

import (
	"context"
	"sync"

	"github.com/san-kum/boidsim/internal/flock"
	"github.com/san-kum/boidsim/internal/target"
)

// Spawner builds a fresh flock, target path and runner for one seed.
// Runners must not share metrics: each run records its own series.
type Spawner func(seed int64) (*flock.Flock, target.Path, *Runner, error)

// Ensemble runs independent flocks for consecutive seeds in parallel.
type Ensemble struct {
	spawn     Spawner
	numRuns   int
	seedStart int64
}

func NewEnsemble(spawn Spawner, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{spawn: spawn, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			f, path, r, err := e.spawn(e.seedStart + int64(idx))
			if err != nil {
				errs[idx] = err
				return
			}
			results[idx], errs[idx] = r.Run(ctx, f, path, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
