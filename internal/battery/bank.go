package battery

import "github.com/san-kum/dronesim/internal/dynamo"

// Bank is a grid of packs: packsInSeries packs per branch, packsInParallel
// branches. Series packs add voltage and carry the branch current; parallel
// branches share the load current, so capacity scales with the branch count.
type Bank interface {
	Voltage() float64
	RemainingCapacity() float64
	MaxCapacity() float64
	ChargePercentage() float64
	Weight() float64
	FullRecharge()
	// Discharge removes amount amp-hours from the bank terminals.
	Discharge(amount float64)
	// Draw supplies power watts for dt seconds.
	Draw(power, dt float64)
}

type grid struct {
	packsInSeries   int
	packsInParallel int
}

func newGrid(template Pack, packsInSeries, packsInParallel int) (grid, error) {
	if template == nil {
		return grid{}, dynamo.Invalid("pack", nil)
	}
	if packsInSeries <= 0 {
		return grid{}, dynamo.Invalid("packs_in_series", packsInSeries)
	}
	if packsInParallel <= 0 {
		return grid{}, dynamo.Invalid("packs_in_parallel", packsInParallel)
	}
	return grid{packsInSeries: packsInSeries, packsInParallel: packsInParallel}, nil
}

func (g grid) PacksInSeries() int   { return g.packsInSeries }
func (g grid) PacksInParallel() int { return g.packsInParallel }

// branchShare is the charge each pack gives up when amount leaves the bank.
func (g grid) branchShare(amount float64) float64 {
	return amount / float64(g.packsInParallel)
}

func chargePercentage(b Bank) float64 {
	return b.RemainingCapacity() / b.MaxCapacity()
}

// draw converts a power demand into amp-hours through the bank voltage.
func draw(b Bank, power, dt float64) {
	current := power / b.Voltage()
	b.Discharge(current * dt / 3600.0)
}

// DetailedBank holds an independent clone of the template pack at every
// grid position.
type DetailedBank struct {
	grid
	branches [][]Pack
}

func NewDetailedBank(template Pack, packsInSeries, packsInParallel int) (*DetailedBank, error) {
	g, err := newGrid(template, packsInSeries, packsInParallel)
	if err != nil {
		return nil, err
	}
	b := &DetailedBank{grid: g, branches: make([][]Pack, packsInParallel)}
	for i := range b.branches {
		branch := make([]Pack, packsInSeries)
		for j := range branch {
			branch[j] = template.Clone()
		}
		b.branches[i] = branch
	}
	return b, nil
}

func (b *DetailedBank) each(fn func(p Pack)) {
	for _, branch := range b.branches {
		for _, p := range branch {
			fn(p)
		}
	}
}

// Voltage is the mean branch voltage.
func (b *DetailedBank) Voltage() float64 {
	sum := 0.0
	b.each(func(p Pack) { sum += p.Voltage() })
	return sum / float64(b.packsInParallel)
}

func (b *DetailedBank) RemainingCapacity() float64 {
	sum := 0.0
	b.each(func(p Pack) { sum += p.RemainingCapacity() })
	return sum / float64(b.packsInSeries)
}

func (b *DetailedBank) MaxCapacity() float64 {
	sum := 0.0
	b.each(func(p Pack) { sum += p.MaxCapacity() })
	return sum / float64(b.packsInSeries)
}

func (b *DetailedBank) ChargePercentage() float64 { return chargePercentage(b) }

func (b *DetailedBank) Weight() float64 {
	sum := 0.0
	b.each(func(p Pack) { sum += p.Weight() })
	return sum
}

func (b *DetailedBank) FullRecharge() {
	b.each(func(p Pack) { p.FullRecharge() })
}

func (b *DetailedBank) Discharge(amount float64) {
	share := b.branchShare(amount)
	b.each(func(p Pack) { p.Discharge(share) })
}

func (b *DetailedBank) Draw(power, dt float64) { draw(b, power, dt) }

// Pack returns the pack at the given branch and series position.
func (b *DetailedBank) Pack(branch, position int) Pack { return b.branches[branch][position] }

// SimpleBank assumes every grid position behaves identically and tracks a
// single representative pack.
type SimpleBank struct {
	grid
	pack Pack
}

func NewSimpleBank(template Pack, packsInSeries, packsInParallel int) (*SimpleBank, error) {
	g, err := newGrid(template, packsInSeries, packsInParallel)
	if err != nil {
		return nil, err
	}
	return &SimpleBank{grid: g, pack: template.Clone()}, nil
}

func (b *SimpleBank) Voltage() float64 {
	return b.pack.Voltage() * float64(b.packsInSeries)
}

func (b *SimpleBank) RemainingCapacity() float64 {
	return b.pack.RemainingCapacity() * float64(b.packsInParallel)
}

func (b *SimpleBank) MaxCapacity() float64 {
	return b.pack.MaxCapacity() * float64(b.packsInParallel)
}

func (b *SimpleBank) ChargePercentage() float64 { return chargePercentage(b) }

func (b *SimpleBank) Weight() float64 {
	return b.pack.Weight() * float64(b.packsInSeries*b.packsInParallel)
}

func (b *SimpleBank) FullRecharge() { b.pack.FullRecharge() }

func (b *SimpleBank) Discharge(amount float64) {
	b.pack.Discharge(b.branchShare(amount))
}

func (b *SimpleBank) Draw(power, dt float64) { draw(b, power, dt) }
