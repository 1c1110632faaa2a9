package metrics

import (
	"math"

	"github.com/san-kum/dronesim/internal/dynamo"
)

// FuelBurned is the fuel used over the run, in litres, measured against the
// tank level at take-off.
type FuelBurned struct {
	start, last float64
}

func NewFuelBurned(startFuel float64) *FuelBurned {
	return &FuelBurned{start: startFuel, last: startFuel}
}

func (f *FuelBurned) Name() string { return "fuel_burned_l" }

func (f *FuelBurned) Observe(r dynamo.Record) { f.last = r.RemainingFuel }

func (f *FuelBurned) Value() float64 { return math.Max(0, f.start-f.last) }
func (f *FuelBurned) Reset()         { f.last = f.start }

// MeanCurrent is the time-averaged current drawn from the bank, in amps.
type MeanCurrent struct {
	charge, time float64
}

func NewMeanCurrent() *MeanCurrent { return &MeanCurrent{} }

func (m *MeanCurrent) Name() string { return "mean_battery_current_a" }

func (m *MeanCurrent) Observe(r dynamo.Record) {
	if r.BankVoltage <= 0 {
		return
	}
	m.charge += r.BatteryPowerDraw / r.BankVoltage * r.Dt
	m.time += r.Dt
}

func (m *MeanCurrent) Value() float64 {
	if m.time == 0 {
		return 0
	}
	return m.charge / m.time
}

func (m *MeanCurrent) Reset() { m.charge, m.time = 0, 0 }

// Defaults is the metric set recorded for every flight of a vehicle that
// takes off with startFuel litres.
func Defaults(startFuel float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewBatteryEnergy(),
		NewGeneratorEnergy(),
		NewTotalEnergy(),
		NewGeneratorShare(),
		NewPeakPower(),
		NewFuelBurned(startFuel),
		NewMeanCurrent(),
	}
}
