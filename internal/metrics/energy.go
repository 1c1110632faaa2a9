package metrics

import (
	"math"

	"github.com/san-kum/dronesim/internal/dynamo"
)

// Energy integrates one power channel of the step results into watt-hours.
type Energy struct {
	name    string
	channel func(dynamo.Record) float64
	total   float64
}

func NewBatteryEnergy() *Energy {
	return &Energy{name: "battery_energy_wh", channel: func(r dynamo.Record) float64 { return r.BatteryPowerDraw }}
}

func NewGeneratorEnergy() *Energy {
	return &Energy{name: "generator_energy_wh", channel: func(r dynamo.Record) float64 { return r.GeneratorPowerDraw }}
}

func NewTotalEnergy() *Energy {
	return &Energy{name: "total_energy_wh", channel: func(r dynamo.Record) float64 { return r.TotalPowerDraw }}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(r dynamo.Record) {
	e.total += e.channel(r) * r.Dt / 3600
}

func (e *Energy) Value() float64 { return e.total }
func (e *Energy) Reset()         { e.total = 0 }

// GeneratorShare is the fraction of total energy supplied by the generator.
type GeneratorShare struct {
	generator, total float64
}

func NewGeneratorShare() *GeneratorShare { return &GeneratorShare{} }

func (g *GeneratorShare) Name() string { return "generator_share" }

func (g *GeneratorShare) Observe(r dynamo.Record) {
	g.generator += r.GeneratorPowerDraw * r.Dt
	g.total += r.TotalPowerDraw * r.Dt
}

func (g *GeneratorShare) Value() float64 {
	if g.total == 0 {
		return 0
	}
	return g.generator / g.total
}

func (g *GeneratorShare) Reset() { g.generator, g.total = 0, 0 }

type PeakPower struct {
	peak float64
}

func NewPeakPower() *PeakPower { return &PeakPower{} }

func (p *PeakPower) Name() string { return "peak_power_w" }

func (p *PeakPower) Observe(r dynamo.Record) {
	p.peak = math.Max(p.peak, r.TotalPowerDraw)
}

func (p *PeakPower) Value() float64 { return p.peak }
func (p *PeakPower) Reset()         { p.peak = 0 }
