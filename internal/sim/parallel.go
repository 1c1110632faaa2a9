package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/dronesim/internal/dynamo"
)

// Factory builds an independent vehicle and the metrics to observe it with.
type Factory func() (Vehicle, []dynamo.Metric, error)

// Ensemble runs many vehicles concurrently, one goroutine each. Vehicles
// share no state, so no locking is needed.
type Ensemble struct {
	factories []Factory
	workers   int
}

func NewEnsemble(factories []Factory, workers int) *Ensemble {
	if workers <= 0 {
		workers = 4
	}
	return &Ensemble{factories: factories, workers: workers}
}

// Run flies every factory with the same cfg.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	cfgs := make([]Config, len(e.factories))
	for i := range cfgs {
		cfgs[i] = cfg
	}
	return e.RunEach(ctx, cfgs)
}

// RunEach flies factory i with cfgs[i] and returns one result per factory,
// in factory order. The first error aborts the ensemble.
func (e *Ensemble) RunEach(ctx context.Context, cfgs []Config) ([]*Result, error) {
	if len(cfgs) != len(e.factories) {
		return nil, fmt.Errorf("%w: %d configs for %d designs", dynamo.ErrInvalidConfig, len(cfgs), len(e.factories))
	}
	results := make([]*Result, len(e.factories))
	errs := make([]error, len(e.factories))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := range e.factories {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			v, metrics, err := e.factories[idx]()
			if err != nil {
				errs[idx] = err
				return
			}

			s := New()
			for _, m := range metrics {
				s.AddMetric(m)
			}
			results[idx], errs[idx] = s.Run(ctx, v, cfgs[idx])
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
