package sim

import (
	"math"

	"github.com/san-kum/dronesim/internal/dynamo"
)

// Vehicle is what the simulator steps. *models.Drone satisfies it.
type Vehicle interface {
	RunStep(dt float64) dynamo.StepResult
	Reset()
	Weight() float64
	ChargePercentage() float64
	RemainingCapacity() float64
	RemainingFuel() float64
	BankVoltage() float64
}

type Config struct {
	Dt            float64 `json:"dt"`
	MinCharge     float64 `json:"min_charge"`
	MaxDuration   float64 `json:"max_duration"`
	KeepRecords   bool    `json:"keep_records"`
	ValidateState bool    `json:"validate_state"`
	// ResetFirst recharges and refuels the vehicle before the first step.
	ResetFirst bool `json:"reset_first"`
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.5,
		MinCharge:     0.15,
		MaxDuration:   24 * 3600,
		KeepRecords:   true,
		ValidateState: true,
		ResetFirst:    true,
	}
}

// stepTolerance absorbs rounding in MaxDuration/Dt so that 0.3/0.1 is 3 steps.
const stepTolerance = 1e-9

// MaxSteps is the number of steps that fit in MaxDuration. A trailing
// partial step is flown in full.
func (c Config) MaxSteps() int {
	if c.Dt <= 0 || c.MaxDuration <= 0 {
		return 0
	}
	return int(math.Ceil(c.MaxDuration/c.Dt - stepTolerance))
}

type StopReason string

const (
	StopDepleted StopReason = "depleted"
	StopDuration StopReason = "max_duration"
	StopInvalid  StopReason = "invalid_state"
	StopCanceled StopReason = "canceled"
)

type Result struct {
	Records    []dynamo.Record    `json:"records,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	StepsTaken int                `json:"steps_taken"`
	FlightTime float64            `json:"flight_time"`
	Reason     StopReason         `json:"reason"`
	Final      dynamo.Record      `json:"final"`
	Errors     []error            `json:"-"`
}
