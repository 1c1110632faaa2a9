// Package generator models a fuel-burning onboard generator with a capped
// electrical output and a finite tank.
package generator

import (
	"math"

	"github.com/san-kum/dronesim/internal/dynamo"
)

type Params struct {
	DryWeight       float64 // g
	MaxPower        float64 // W
	FuelConsumption float64 // g / kWh
	TankCapacity    float64 // L
	FuelDensity     float64 // g / L
}

type Generator struct {
	Params
	remainingTank float64
}

// New returns a generator with a full tank.
func New(p Params) (*Generator, error) {
	switch {
	case p.DryWeight < 0:
		return nil, dynamo.Invalid("dry_weight", p.DryWeight)
	case p.MaxPower < 0:
		return nil, dynamo.Invalid("max_power", p.MaxPower)
	case p.FuelConsumption <= 0:
		return nil, dynamo.Invalid("fuel_consumption", p.FuelConsumption)
	case p.TankCapacity < 0:
		return nil, dynamo.Invalid("tank_capacity", p.TankCapacity)
	case p.FuelDensity <= 0:
		return nil, dynamo.Invalid("fuel_density", p.FuelDensity)
	}
	g := &Generator{Params: p}
	g.Reset()
	return g, nil
}

func (g *Generator) Reset() { g.remainingTank = g.TankCapacity }

// Weight is the dry weight plus the fuel still in the tank.
func (g *Generator) Weight() float64 {
	return g.DryWeight + g.remainingTank*g.FuelDensity
}

func (g *Generator) RemainingFuel() float64 { return g.remainingTank }

func (g *Generator) FuelFraction() float64 {
	if g.TankCapacity == 0 {
		return 0
	}
	return g.remainingTank / g.TankCapacity
}

// fuelGrams is the fuel mass burned producing power watts for dt seconds.
func (g *Generator) fuelGrams(power, dt float64) float64 {
	return g.FuelConsumption * (power / 1000) * (dt / 3600)
}

// Generate burns fuel to supply up to powerRequired watts for dt seconds and
// returns the power actually delivered. When the tank runs dry mid-step the
// result reflects only the fuel that was available.
func (g *Generator) Generate(powerRequired, dt float64) float64 {
	if dt <= 0 || g.remainingTank <= 0 {
		return 0
	}
	power := math.Max(0, math.Min(powerRequired, g.MaxPower))

	before := g.remainingTank
	g.remainingTank = math.Max(0, g.remainingTank-g.fuelGrams(power, dt)/g.FuelDensity)

	burned := (before - g.remainingTank) * g.FuelDensity
	return burned / g.fuelGrams(1, dt)
}

// Endurance is how long the remaining fuel lasts at the given output, in seconds.
func (g *Generator) Endurance(power float64) float64 {
	power = math.Min(power, g.MaxPower)
	if power <= 0 {
		return math.Inf(1)
	}
	return g.remainingTank * g.FuelDensity / g.fuelGrams(power, 1)
}

// EnergyBound is the most energy a full tank can deliver, in Wh.
func (g *Generator) EnergyBound() float64 {
	return g.TankCapacity * g.FuelDensity / g.FuelConsumption * 1000
}
