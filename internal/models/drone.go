package models

import (
	"github.com/san-kum/dronesim/internal/battery"
	"github.com/san-kum/dronesim/internal/dynamo"
	"github.com/san-kum/dronesim/internal/generator"
	"github.com/san-kum/dronesim/internal/powertrain"
)

// ThrustMargin is the thrust commanded per unit of weight, leaving headroom
// for climb and manoeuvring.
const ThrustMargin = 1.3

// Drone composes a battery bank, a powertrain and an optional generator.
// Its state is entirely the state of the bank and the generator's tank.
// A Drone must not be stepped from more than one goroutine.
type Drone struct {
	bank          battery.Bank
	powertrain    *powertrain.Powertrain
	generator     *generator.Generator
	FrameWeight   float64
	PayloadWeight float64
}

// NewDrone builds a drone; gen may be nil for a battery-only vehicle.
func NewDrone(bank battery.Bank, train *powertrain.Powertrain, gen *generator.Generator, frameWeight, payloadWeight float64) (*Drone, error) {
	if bank == nil {
		return nil, dynamo.Invalid("battery_bank", nil)
	}
	if train == nil {
		return nil, dynamo.Invalid("powertrain", nil)
	}
	if frameWeight < 0 {
		return nil, dynamo.Invalid("frame_weight", frameWeight)
	}
	if payloadWeight < 0 {
		return nil, dynamo.Invalid("payload_weight", payloadWeight)
	}
	return &Drone{
		bank:          bank,
		powertrain:    train,
		generator:     gen,
		FrameWeight:   frameWeight,
		PayloadWeight: payloadWeight,
	}, nil
}

func (d *Drone) Bank() battery.Bank                 { return d.bank }
func (d *Drone) Powertrain() *powertrain.Powertrain { return d.powertrain }
func (d *Drone) Generator() *generator.Generator    { return d.generator }

// Weight is the current all-up weight in grams.
func (d *Drone) Weight() float64 {
	w := d.FrameWeight + d.bank.Weight() + d.PayloadWeight
	if d.generator != nil {
		w += d.generator.Weight()
	}
	return w
}

func (d *Drone) ChargePercentage() float64  { return d.bank.ChargePercentage() }
func (d *Drone) RemainingCapacity() float64 { return d.bank.RemainingCapacity() }
func (d *Drone) BankVoltage() float64       { return d.bank.Voltage() }

func (d *Drone) RemainingFuel() float64 {
	if d.generator == nil {
		return 0
	}
	return d.generator.RemainingFuel()
}

// ThrustToWeight is the ratio of thrust produced by totalPower to the
// current weight.
func (d *Drone) ThrustToWeight(totalPower float64) float64 {
	return d.powertrain.InstantaneousThrust(totalPower) / d.Weight()
}

// HoverPower is the power needed to hold the current weight without margin.
func (d *Drone) HoverPower() float64 {
	return d.powertrain.InstantaneousPower(d.Weight())
}

// RunStep advances the drone by dt seconds.
func (d *Drone) RunStep(dt float64) dynamo.StepResult {
	thrust := ThrustMargin * d.Weight()
	required := d.powertrain.InstantaneousPower(thrust)

	generated := 0.0
	if d.generator != nil {
		generated = d.generator.Generate(required, dt)
	}

	fromBattery := required - generated
	d.bank.Draw(fromBattery, dt)

	return dynamo.StepResult{
		TotalPowerDraw:     required,
		BatteryPowerDraw:   fromBattery,
		GeneratorPowerDraw: generated,
		Thrust:             thrust,
	}
}

// Reset recharges the bank and refills the tank.
func (d *Drone) Reset() {
	d.bank.FullRecharge()
	if d.generator != nil {
		d.generator.Reset()
	}
}
