package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dronesim/internal/battery"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/powertrain"
	"github.com/san-kum/dronesim/internal/sim"
)

const (
	DefaultDt          = 0.5
	DefaultMinCharge   = 0.15
	DefaultMaxDuration = 24 * 3600.0
	DefaultMotor       = "hobbywing-xrotor-8120"
	DefaultMotors      = 6
	DefaultFrameWeight = 5000.0

	// MountWeight is the motor, arm and propeller mass carried per rotor, in grams.
	MountWeight = 645 + 85 + 180

	// DefaultPayloadWeight is 10 lb of cargo plus the rotor mounts.
	DefaultPayloadWeight = 10/2.20462*1000 + MountWeight*DefaultMotors
)

type Config struct {
	Name          string           `yaml:"name" validate:"required"`
	FrameWeight   float64          `yaml:"frame_weight" validate:"gte=0"`
	PayloadWeight float64          `yaml:"payload_weight" validate:"gte=0"`
	Battery       BatteryConfig    `yaml:"battery"`
	Generator     GeneratorConfig  `yaml:"generator"`
	Powertrain    PowertrainConfig `yaml:"powertrain"`
	Sim           SimConfig        `yaml:"sim"`
}

type BatteryConfig struct {
	Model           string  `yaml:"model" validate:"oneof=detailed simple"`
	CellsInSeries   int     `yaml:"cells_in_series" validate:"gt=0"`
	PackCapacity    float64 `yaml:"pack_capacity" validate:"gt=0"`
	PackWeight      float64 `yaml:"pack_weight" validate:"gte=0"`
	PacksInSeries   int     `yaml:"packs_in_series" validate:"gt=0"`
	PacksInParallel int     `yaml:"packs_in_parallel" validate:"gt=0"`
}

type GeneratorConfig struct {
	Enabled         bool    `yaml:"enabled"`
	DryWeight       float64 `yaml:"dry_weight" validate:"gte=0"`
	MaxPower        float64 `yaml:"max_power" validate:"gte=0"`
	FuelConsumption float64 `yaml:"fuel_consumption" validate:"gt=0"`
	TankCapacity    float64 `yaml:"tank_capacity" validate:"gte=0"`
	FuelDensity     float64 `yaml:"fuel_density" validate:"gt=0"`
}

type PowertrainConfig struct {
	Motor          string `yaml:"motor" validate:"required"`
	NumberOfMotors int    `yaml:"number_of_motors" validate:"gt=0"`
	// Datapoints replaces the catalog table for Motor when set.
	Datapoints []powertrain.Sample `yaml:"datapoints,omitempty" validate:"omitempty,min=2,dive"`
}

type SimConfig struct {
	Dt          float64 `yaml:"dt" validate:"gt=0"`
	MinCharge   float64 `yaml:"min_charge" validate:"gte=0,lt=1"`
	MaxDuration float64 `yaml:"max_duration" validate:"gt=0"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:          "hybrid",
		FrameWeight:   DefaultFrameWeight,
		PayloadWeight: DefaultPayloadWeight,
		Battery: BatteryConfig{
			Model:           "detailed",
			CellsInSeries:   6,
			PackCapacity:    5,
			PackWeight:      716,
			PacksInSeries:   2,
			PacksInParallel: 3,
		},
		Generator: GeneratorConfig{
			Enabled:         true,
			DryWeight:       7200,
			MaxPower:        5000,
			FuelConsumption: 750,
			TankCapacity:    6,
			FuelDensity:     780,
		},
		Powertrain: PowertrainConfig{
			Motor:          DefaultMotor,
			NumberOfMotors: DefaultMotors,
		},
		Sim: SimConfig{
			Dt:          DefaultDt,
			MinCharge:   DefaultMinCharge,
			MaxDuration: DefaultMaxDuration,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the struct tags and that the motor resolves to a table
// the power curve can be fitted to.
func (c *Config) Validate() error {
	if err := NewValidator().Validate(c); err != nil {
		return fmt.Errorf("%w: %w", dynamo.ErrInvalidConfig, err)
	}
	spec, err := c.MotorSpec()
	if err != nil {
		return err
	}
	if _, err := spec.Curve(); err != nil {
		return fmt.Errorf("%w: motor %s: %w", dynamo.ErrInvalidConfig, spec.Name, err)
	}
	return nil
}

// MotorSpec resolves the configured motor, letting inline datapoints override
// the catalog table.
func (c *Config) MotorSpec() (MotorSpec, error) {
	spec, ok := Motors[c.Powertrain.Motor]
	if len(c.Powertrain.Datapoints) > 0 {
		if !ok {
			spec = MotorSpec{Name: c.Powertrain.Motor, Voltage: 12 * battery.CellVoltage}
		}
		spec.Datapoints = c.Powertrain.Datapoints
		return spec, nil
	}
	if !ok {
		return MotorSpec{}, fmt.Errorf("%w: %s", dynamo.ErrUnknownMotor, c.Powertrain.Motor)
	}
	return spec, nil
}

func (c *Config) SimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = c.Sim.Dt
	cfg.MinCharge = c.Sim.MinCharge
	cfg.MaxDuration = c.Sim.MaxDuration
	return cfg
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Powertrain.Datapoints != nil {
		out.Powertrain.Datapoints = append([]powertrain.Sample(nil), c.Powertrain.Datapoints...)
	}
	return &out
}
