package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/powertrain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Name != "hybrid" {
		t.Errorf("expected name hybrid, got %s", cfg.Name)
	}
	if cfg.Powertrain.NumberOfMotors != 6 {
		t.Errorf("expected 6 motors, got %d", cfg.Powertrain.NumberOfMotors)
	}
	if cfg.Battery.PacksInSeries != 2 || cfg.Battery.PacksInParallel != 3 {
		t.Errorf("expected a 2S3P bank, got %dS%dP", cfg.Battery.PacksInSeries, cfg.Battery.PacksInParallel)
	}
	if math.Abs(cfg.PayloadWeight-9995.92) > 0.01 {
		t.Errorf("expected payload ~9995.92 g, got %f", cfg.PayloadWeight)
	}
	if !cfg.Generator.Enabled {
		t.Error("generator should be enabled")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drone.yaml")
	cfg := DefaultConfig()
	cfg.Name = "custom"
	cfg.Battery.Model = "simple"
	cfg.Generator.TankCapacity = 3.5

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", loaded, cfg)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("name: partial\ngenerator:\n  enabled: false\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Name != "partial" || cfg.Generator.Enabled {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Sim.Dt != DefaultDt {
		t.Errorf("expected default dt %f, got %f", DefaultDt, cfg.Sim.Dt)
	}
	if cfg.Powertrain.Motor != DefaultMotor {
		t.Errorf("expected default motor, got %s", cfg.Powertrain.Motor)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"zero parallel packs", "battery:\n  packs_in_parallel: 0\n", "packs_in_parallel"},
		{"negative power sample", "powertrain:\n  datapoints:\n    - {thrust: 1000, power: 100}\n    - {thrust: 2000, power: -5}\n", "power"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := Load(path)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		target error
	}{
		{"bad battery model", func(c *Config) { c.Battery.Model = "lead-acid" }, dynamo.ErrInvalidConfig},
		{"zero dt", func(c *Config) { c.Sim.Dt = 0 }, dynamo.ErrInvalidConfig},
		{"min charge of one", func(c *Config) { c.Sim.MinCharge = 1 }, dynamo.ErrInvalidConfig},
		{"negative frame", func(c *Config) { c.FrameWeight = -1 }, dynamo.ErrInvalidConfig},
		{"single datapoint", func(c *Config) {
			c.Powertrain.Datapoints = []powertrain.Sample{{Thrust: 1000, Power: 100}}
		}, dynamo.ErrInvalidConfig},
		{"negative power datapoint", func(c *Config) {
			c.Powertrain.Datapoints = []powertrain.Sample{{Thrust: 1000, Power: 100}, {Thrust: 2000, Power: -250}}
		}, dynamo.ErrInvalidConfig},
		{"zero thrust datapoint", func(c *Config) {
			c.Powertrain.Datapoints = []powertrain.Sample{{Thrust: 0, Power: 100}, {Thrust: 2000, Power: 250}}
		}, dynamo.ErrInvalidConfig},
		{"constant thrust datapoints", func(c *Config) {
			c.Powertrain.Datapoints = []powertrain.Sample{{Thrust: 1000, Power: 100}, {Thrust: 1000, Power: 250}}
		}, dynamo.ErrDegenerateFit},
		{"unknown motor", func(c *Config) { c.Powertrain.Motor = "nope" }, dynamo.ErrUnknownMotor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestMotorSpecCustomDatapoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Powertrain.Motor = "bench-motor"
	cfg.Powertrain.Datapoints = []powertrain.Sample{
		{Thrust: 1000, Power: 100},
		{Thrust: 2000, Power: 250},
		{Thrust: 4000, Power: 640},
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	spec, err := cfg.MotorSpec()
	if err != nil {
		t.Fatalf("motor spec: %v", err)
	}
	if spec.Name != "bench-motor" || len(spec.Datapoints) != 3 {
		t.Errorf("unexpected spec %+v", spec)
	}
}

func TestMotorCatalogFits(t *testing.T) {
	for _, name := range ListMotors() {
		curve, err := Motors[name].Curve()
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		if curve.RSquared() <= 0.99 {
			t.Errorf("%s: r^2 = %f", name, curve.RSquared())
		}
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sim.Dt = 2

	sc := cfg.SimConfig()

	if sc.Dt != 2 {
		t.Errorf("expected dt 2, got %f", sc.Dt)
	}
	if sc.MinCharge != DefaultMinCharge {
		t.Errorf("expected min charge %f, got %f", DefaultMinCharge, sc.MinCharge)
	}
	if !sc.ResetFirst {
		t.Error("sim config should reset before flying")
	}
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Powertrain.Datapoints = []powertrain.Sample{{Thrust: 1, Power: 1}, {Thrust: 2, Power: 3}}

	c := cfg.Clone()
	c.Powertrain.Datapoints[0].Power = 99
	c.Battery.PacksInSeries = 9

	if cfg.Powertrain.Datapoints[0].Power != 1 {
		t.Error("clone shares datapoints with the original")
	}
	if cfg.Battery.PacksInSeries != 2 {
		t.Error("clone shares battery settings with the original")
	}
}
