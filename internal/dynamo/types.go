package dynamo

import "math"

// StepResult is the power and thrust breakdown of one step. Power is in
// watts, thrust in grams-force.
type StepResult struct {
	TotalPowerDraw     float64 `json:"total_power_draw"`
	BatteryPowerDraw   float64 `json:"battery_power_draw"`
	GeneratorPowerDraw float64 `json:"generator_power_draw"`
	Thrust             float64 `json:"thrust"`
}

func (r StepResult) IsValid() bool {
	for _, v := range []float64{r.TotalPowerDraw, r.BatteryPowerDraw, r.GeneratorPowerDraw, r.Thrust} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Record is a step result plus the vehicle state observed after the step.
// Time is the simulated time at the start of the step.
type Record struct {
	StepResult

	Step              int     `json:"step"`
	Time              float64 `json:"time"`
	Dt                float64 `json:"dt"`
	ChargePercentage  float64 `json:"charge_percentage"`
	RemainingCapacity float64 `json:"remaining_capacity"`
	BankVoltage       float64 `json:"bank_voltage"`
	RemainingFuel     float64 `json:"remaining_fuel"`
	Weight            float64 `json:"weight"`
}

type Metric interface {
	Name() string
	Observe(r Record)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(r Record)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(r Record)

func (f ObserverFunc) OnStep(r Record) { f(r) }
