package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/dronesim/internal/battery"
	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/generator"
	"github.com/san-kum/dronesim/internal/metrics"
	"github.com/san-kum/dronesim/internal/models"
	"github.com/san-kum/dronesim/internal/powertrain"
)

type bankBuilder func(c config.BatteryConfig) (battery.Bank, error)

// Registry resolves the names used in a config into components.
type Registry struct {
	banks map[string]bankBuilder
}

func NewRegistry() *Registry {
	r := &Registry{banks: make(map[string]bankBuilder)}

	r.banks["detailed"] = func(c config.BatteryConfig) (battery.Bank, error) {
		pack, err := battery.NewDetailedPack(c.CellsInSeries, c.PackCapacity, c.PackWeight)
		if err != nil {
			return nil, err
		}
		return battery.NewDetailedBank(pack, c.PacksInSeries, c.PacksInParallel)
	}
	r.banks["simple"] = func(c config.BatteryConfig) (battery.Bank, error) {
		pack, err := battery.NewSimplePack(c.CellsInSeries, c.PackCapacity, c.PackWeight)
		if err != nil {
			return nil, err
		}
		return battery.NewSimpleBank(pack, c.PacksInSeries, c.PacksInParallel)
	}

	return r
}

func (r *Registry) GetBank(c config.BatteryConfig) (battery.Bank, error) {
	fn, ok := r.banks[c.Model]
	if !ok {
		return nil, fmt.Errorf("%w: unknown battery model %q", dynamo.ErrInvalidConfig, c.Model)
	}
	return fn(c)
}

func (r *Registry) GetPowertrain(cfg *config.Config) (*powertrain.Powertrain, error) {
	spec, err := cfg.MotorSpec()
	if err != nil {
		return nil, err
	}
	curve, err := spec.Curve()
	if err != nil {
		return nil, fmt.Errorf("motor %s: %w", spec.Name, err)
	}
	motor, err := powertrain.NewMotor(spec.Name, spec.Cost, spec.Voltage, curve)
	if err != nil {
		return nil, err
	}
	return powertrain.New(motor, cfg.Powertrain.NumberOfMotors)
}

// GetGenerator returns nil when the config disables the generator.
func (r *Registry) GetGenerator(c config.GeneratorConfig) (*generator.Generator, error) {
	if !c.Enabled {
		return nil, nil
	}
	return generator.New(generator.Params{
		DryWeight:       c.DryWeight,
		MaxPower:        c.MaxPower,
		FuelConsumption: c.FuelConsumption,
		TankCapacity:    c.TankCapacity,
		FuelDensity:     c.FuelDensity,
	})
}

// Build assembles a fully charged, fully fuelled drone from cfg.
func (r *Registry) Build(cfg *config.Config) (*models.Drone, error) {
	bank, err := r.GetBank(cfg.Battery)
	if err != nil {
		return nil, err
	}
	train, err := r.GetPowertrain(cfg)
	if err != nil {
		return nil, err
	}
	gen, err := r.GetGenerator(cfg.Generator)
	if err != nil {
		return nil, err
	}
	return models.NewDrone(bank, train, gen, cfg.FrameWeight, cfg.PayloadWeight)
}

func (r *Registry) ListBankModels() []string {
	names := make([]string, 0, len(r.banks))
	for name := range r.banks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(d *models.Drone) []dynamo.Metric {
	return metrics.Defaults(d.RemainingFuel())
}
