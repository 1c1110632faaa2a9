package experiment

import (
	"context"
	"errors"

	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/models"
	"github.com/san-kum/dronesim/internal/sim"
)

// Experiment is one configured flight: a drone, a simulator and its metrics.
type Experiment struct {
	cfg       *config.Config
	drone     *models.Drone
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	d, err := r.Build(e.cfg)
	if err != nil {
		return err
	}
	e.drone = d
	e.simulator = sim.New()
	for _, m := range r.DefaultMetrics(d) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, errors.New("experiment not setup")
	}
	return e.simulator.Run(ctx, e.drone, e.cfg.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }

func (e *Experiment) Drone() *models.Drone   { return e.drone }
func (e *Experiment) Config() *config.Config { return e.cfg }

// Factory adapts cfg for an ensemble run. Each call builds a fresh drone.
func Factory(r *Registry, cfg *config.Config) sim.Factory {
	return func() (sim.Vehicle, []dynamo.Metric, error) {
		d, err := r.Build(cfg)
		if err != nil {
			return nil, nil, err
		}
		return d, r.DefaultMetrics(d), nil
	}
}
