// Package battery models a lithium battery as a hierarchy of cells, series
// packs and series/parallel banks. Capacities are in amp-hours, voltages in
// volts and weights in grams.
package battery

// CellVoltage is the nominal voltage of one lithium polymer cell.
const CellVoltage = 11.1 / 3

// Cell is the smallest storage unit. Remaining capacity is not floored at
// zero; a negative value means the cell has been drawn past empty.
type Cell struct {
	maxCapacity       float64
	remainingCapacity float64
}

func NewCell(maxCapacity float64) *Cell {
	return &Cell{maxCapacity: maxCapacity, remainingCapacity: maxCapacity}
}

func (c *Cell) Discharge(amount float64) { c.remainingCapacity -= amount }
func (c *Cell) FullRecharge()            { c.remainingCapacity = c.maxCapacity }

func (c *Cell) Voltage() float64           { return CellVoltage }
func (c *Cell) MaxCapacity() float64       { return c.maxCapacity }
func (c *Cell) RemainingCapacity() float64 { return c.remainingCapacity }

func (c *Cell) clone() *Cell {
	cp := *c
	return &cp
}
