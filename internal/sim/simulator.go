package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/dronesim/internal/dynamo"
)

type Simulator struct {
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run steps v until its bank falls to cfg.MinCharge, cfg.MaxDuration of
// simulated time has passed, or ctx is done. The step that crosses the
// threshold is counted and recorded.
func (s *Simulator) Run(ctx context.Context, v Vehicle, cfg Config) (*Result, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	maxSteps := cfg.MaxSteps()
	result := &Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	if cfg.KeepRecords {
		result.Records = make([]dynamo.Record, 0, min(maxSteps, 1<<16))
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	if cfg.ResetFirst {
		v.Reset()
	}

	t := 0.0
	result.Reason = StopDuration
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			result.Reason = StopCanceled
			s.finish(result, t)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		res := v.RunStep(cfg.Dt)
		rec := Snapshot(v, res, i, t, cfg.Dt)

		if cfg.ValidateState && !res.IsValid() {
			result.Errors = append(result.Errors, &dynamo.SimError{
				Step: i, Time: t, Message: "invalid step result (NaN/Inf)", Wrapped: dynamo.ErrInvalidStep,
			})
			result.Reason = StopInvalid
			break
		}

		for _, m := range s.metrics {
			m.Observe(rec)
		}
		for _, obs := range s.observers {
			obs.OnStep(rec)
		}

		t += cfg.Dt
		result.StepsTaken++
		result.Final = rec
		if cfg.KeepRecords {
			result.Records = append(result.Records, rec)
		}

		if rec.ChargePercentage <= cfg.MinCharge {
			result.Reason = StopDepleted
			break
		}
	}

	s.finish(result, t)
	return result, nil
}

func (s *Simulator) finish(result *Result, t float64) {
	result.FlightTime = t
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Snapshot captures the vehicle state after a step.
func Snapshot(v Vehicle, res dynamo.StepResult, step int, t, dt float64) dynamo.Record {
	return dynamo.Record{
		StepResult:        res,
		Step:              step,
		Time:              t,
		Dt:                dt,
		ChargePercentage:  v.ChargePercentage(),
		RemainingCapacity: v.RemainingCapacity(),
		BankVoltage:       v.BankVoltage(),
		RemainingFuel:     v.RemainingFuel(),
		Weight:            v.Weight(),
	}
}

func ValidateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.MaxDuration <= 0 {
		return fmt.Errorf("%w: max duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.MaxDuration)
	}
	if cfg.MinCharge < 0 || cfg.MinCharge >= 1 {
		return fmt.Errorf("%w: min charge must be in [0, 1), got %f", dynamo.ErrInvalidConfig, cfg.MinCharge)
	}
	return nil
}

// RunWithCallback steps v, calling callback after every step until it
// returns false, the bank is depleted, or cfg.MaxSteps steps have run.
func (s *Simulator) RunWithCallback(ctx context.Context, v Vehicle, cfg Config, callback func(dynamo.Record) bool) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	if cfg.ResetFirst {
		v.Reset()
	}

	t := 0.0
	maxSteps := cfg.MaxSteps()
	for i := 0; i < maxSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		res := v.RunStep(cfg.Dt)
		if cfg.ValidateState && !res.IsValid() {
			return fmt.Errorf("%w at t=%.4f", dynamo.ErrInvalidStep, t)
		}
		rec := Snapshot(v, res, i, t, cfg.Dt)
		t += cfg.Dt

		if !callback(rec) || rec.ChargePercentage <= cfg.MinCharge {
			return nil
		}
	}

	return nil
}
