package optim

import (
	"context"
	"fmt"
	"sort"

	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/experiment"
	"github.com/san-kum/dronesim/internal/sim"
)

// Parameters a sweep can vary.
const (
	PacksInSeries   = "packs_in_series"
	PacksInParallel = "packs_in_parallel"
	NumberOfMotors  = "number_of_motors"
	TankCapacity    = "tank_capacity"
)

// GridSearch flies every combination of parameter values and ranks the
// designs by flight time.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64, workers int) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters but %d ranges", dynamo.ErrInvalidConfig, len(params), len(ranges))
	}
	for i, name := range params {
		if err := apply(config.DefaultConfig(), name, 1); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, dynamo.Invalid(name, "empty range")
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: workers}, nil
}

type Candidate struct {
	Params map[string]float64
	Config *config.Config
}

type Outcome struct {
	Candidate
	Result *sim.Result
}

// Candidates expands the grid around base. Every candidate is validated.
func (g *GridSearch) Candidates(base *config.Config) ([]Candidate, error) {
	var out []Candidate
	err := g.expand(0, make(map[string]float64), func(params map[string]float64) error {
		cfg := base.Clone()
		cfg.Name = candidateName(base.Name, g.paramNames, params)
		for name, val := range params {
			if err := apply(cfg, name, val); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("%s: %w", cfg.Name, err)
		}
		out = append(out, Candidate{Params: params, Config: cfg})
		return nil
	})
	return out, err
}

func (g *GridSearch) expand(depth int, current map[string]float64, emit func(map[string]float64) error) error {
	if depth == len(g.paramNames) {
		return emit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.expand(depth+1, newParams, emit); err != nil {
			return err
		}
	}
	return nil
}

// Search runs every candidate as one ensemble and returns the outcomes
// sorted by descending flight time.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, r *experiment.Registry) ([]Outcome, error) {
	candidates, err := g.Candidates(base)
	if err != nil {
		return nil, err
	}

	factories := make([]sim.Factory, len(candidates))
	for i, c := range candidates {
		factories[i] = experiment.Factory(r, c.Config)
	}

	cfg := base.SimConfig()
	cfg.KeepRecords = false
	results, err := sim.NewEnsemble(factories, g.workers).Run(ctx, cfg)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(candidates))
	for i := range candidates {
		outcomes[i] = Outcome{Candidate: candidates[i], Result: results[i]}
	}
	sort.SliceStable(outcomes, func(i, j int) bool {
		return outcomes[i].Result.FlightTime > outcomes[j].Result.FlightTime
	})
	return outcomes, nil
}

func apply(cfg *config.Config, name string, val float64) error {
	switch name {
	case PacksInSeries:
		cfg.Battery.PacksInSeries = int(val)
	case PacksInParallel:
		cfg.Battery.PacksInParallel = int(val)
	case NumberOfMotors:
		n := int(val)
		cfg.PayloadWeight += float64(n-cfg.Powertrain.NumberOfMotors) * config.MountWeight
		cfg.Powertrain.NumberOfMotors = n
	case TankCapacity:
		cfg.Generator.TankCapacity = val
	default:
		return fmt.Errorf("%w: unknown sweep parameter %q", dynamo.ErrInvalidConfig, name)
	}
	return nil
}

func candidateName(base string, names []string, params map[string]float64) string {
	name := base
	for _, n := range names {
		name += fmt.Sprintf("_%s=%g", n, params[n])
	}
	return name
}
