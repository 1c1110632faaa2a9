// Package automation flies scripted batches of designs described in YAML.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dronesim/internal/config"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/experiment"
	"github.com/san-kum/dronesim/internal/sim"
	"github.com/san-kum/dronesim/internal/storage"
)

// Scenario is a list of flights run one after another.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Flights     []Flight `yaml:"flights"`
}

// Flight starts from Preset (or the default design) and applies Design on
// top of it, so a flight only needs to list the fields it changes.
type Flight struct {
	Label  string    `yaml:"label"`
	Preset string    `yaml:"preset"`
	Design yaml.Node `yaml:"design"`
	Save   bool      `yaml:"save"`
}

type FlightResult struct {
	Label  string
	Config *config.Config
	Result *sim.Result
	RunID  string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Flights) == 0 {
		return nil, fmt.Errorf("%w: scenario %q has no flights", dynamo.ErrInvalidConfig, scenario.Name)
	}
	return &scenario, nil
}

// Resolve builds the validated design for flight i.
func (f Flight) Resolve(i int) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.Preset != "" {
		if cfg = config.GetPreset(f.Preset); cfg == nil {
			return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownPreset, f.Preset)
		}
	}
	if !f.Design.IsZero() {
		if err := f.Design.Decode(cfg); err != nil {
			return nil, err
		}
	}
	if f.Label != "" {
		cfg.Name = f.Label
	} else if f.Preset == "" && f.Design.IsZero() {
		cfg.Name = fmt.Sprintf("flight-%d", i+1)
	}
	return cfg, cfg.Validate()
}

// RunScenario flies every flight in order, writing progress to out. Flights
// marked Save are stored when store is not nil.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, store *storage.Store, out io.Writer) ([]FlightResult, error) {
	results := make([]FlightResult, 0, len(scenario.Flights))

	for i, f := range scenario.Flights {
		cfg, err := f.Resolve(i)
		if err != nil {
			return results, fmt.Errorf("flight %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "flight %d/%d: %s\n", i+1, len(scenario.Flights), cfg.Name)

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("flight %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("flight %d run: %w", i+1, err)
		}

		fr := FlightResult{Label: cfg.Name, Config: cfg, Result: result}
		if f.Save && store != nil {
			if fr.RunID, err = store.Save(cfg, result); err != nil {
				return results, fmt.Errorf("flight %d save: %w", i+1, err)
			}
		}
		results = append(results, fr)
	}

	return results, nil
}
