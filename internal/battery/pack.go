package battery

import "github.com/san-kum/dronesim/internal/dynamo"

// Pack is a series string of cells. Every cell in the string carries the
// same current, so a discharge is spread evenly over the cells.
type Pack interface {
	// Clone returns an independent pack with the same design and charge.
	Clone() Pack
	FullRecharge()
	Discharge(amount float64)
	Voltage() float64
	MaxCapacity() float64
	RemainingCapacity() float64
	Weight() float64
	CellsInSeries() int
}

type packDesign struct {
	cellsInSeries  int
	designCapacity float64
	weight         float64
}

func newPackDesign(cellsInSeries int, designCapacity, weight float64) (packDesign, error) {
	if cellsInSeries <= 0 {
		return packDesign{}, dynamo.Invalid("cells_in_series", cellsInSeries)
	}
	if designCapacity <= 0 {
		return packDesign{}, dynamo.Invalid("pack_capacity", designCapacity)
	}
	if weight < 0 {
		return packDesign{}, dynamo.Invalid("pack_weight", weight)
	}
	return packDesign{cellsInSeries: cellsInSeries, designCapacity: designCapacity, weight: weight}, nil
}

func (d packDesign) cellCapacity() float64 { return d.designCapacity / float64(d.cellsInSeries) }
func (d packDesign) Weight() float64       { return d.weight }
func (d packDesign) CellsInSeries() int    { return d.cellsInSeries }

// DetailedPack tracks every cell of the string individually.
type DetailedPack struct {
	packDesign
	cells []*Cell
}

func NewDetailedPack(cellsInSeries int, designCapacity, weight float64) (*DetailedPack, error) {
	d, err := newPackDesign(cellsInSeries, designCapacity, weight)
	if err != nil {
		return nil, err
	}
	p := &DetailedPack{packDesign: d, cells: make([]*Cell, cellsInSeries)}
	for i := range p.cells {
		p.cells[i] = NewCell(d.cellCapacity())
	}
	return p, nil
}

func (p *DetailedPack) Clone() Pack {
	cp := &DetailedPack{packDesign: p.packDesign, cells: make([]*Cell, len(p.cells))}
	for i, c := range p.cells {
		cp.cells[i] = c.clone()
	}
	return cp
}

func (p *DetailedPack) FullRecharge() {
	for _, c := range p.cells {
		c.FullRecharge()
	}
}

func (p *DetailedPack) Discharge(amount float64) {
	share := amount / float64(p.cellsInSeries)
	for _, c := range p.cells {
		c.Discharge(share)
	}
}

func (p *DetailedPack) Voltage() float64 {
	v := 0.0
	for _, c := range p.cells {
		v += c.Voltage()
	}
	return v
}

func (p *DetailedPack) MaxCapacity() float64 {
	total := 0.0
	for _, c := range p.cells {
		total += c.MaxCapacity()
	}
	return total
}

func (p *DetailedPack) RemainingCapacity() float64 {
	total := 0.0
	for _, c := range p.cells {
		total += c.RemainingCapacity()
	}
	return total
}

// Cells exposes the per-cell state for inspection.
func (p *DetailedPack) Cells() []*Cell { return p.cells }

// SimplePack assumes identical cells and keeps one representative cell,
// scaling its figures by the string length.
type SimplePack struct {
	packDesign
	cell *Cell
}

func NewSimplePack(cellsInSeries int, designCapacity, weight float64) (*SimplePack, error) {
	d, err := newPackDesign(cellsInSeries, designCapacity, weight)
	if err != nil {
		return nil, err
	}
	return &SimplePack{packDesign: d, cell: NewCell(d.cellCapacity())}, nil
}

func (p *SimplePack) Clone() Pack {
	return &SimplePack{packDesign: p.packDesign, cell: p.cell.clone()}
}

func (p *SimplePack) FullRecharge() { p.cell.FullRecharge() }

func (p *SimplePack) Discharge(amount float64) {
	p.cell.Discharge(amount / float64(p.cellsInSeries))
}

func (p *SimplePack) Voltage() float64 {
	return p.cell.Voltage() * float64(p.cellsInSeries)
}

func (p *SimplePack) MaxCapacity() float64 {
	return p.cell.MaxCapacity() * float64(p.cellsInSeries)
}

func (p *SimplePack) RemainingCapacity() float64 {
	return p.cell.RemainingCapacity() * float64(p.cellsInSeries)
}
