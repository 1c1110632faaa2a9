package battery

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dronesim/internal/dynamo"
)

const tol = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) <= tol*math.Max(1, math.Abs(b)) }

type packFactory func(cells int, capacity, weight float64) (Pack, error)

var packVariants = map[string]packFactory{
	"detailed": func(c int, cap, w float64) (Pack, error) { return NewDetailedPack(c, cap, w) },
	"simple":   func(c int, cap, w float64) (Pack, error) { return NewSimplePack(c, cap, w) },
}

type bankFactory func(p Pack, s, par int) (Bank, error)

var bankVariants = map[string]bankFactory{
	"detailed": func(p Pack, s, par int) (Bank, error) { return NewDetailedBank(p, s, par) },
	"simple":   func(p Pack, s, par int) (Bank, error) { return NewSimpleBank(p, s, par) },
}

func TestCellDischargeRecharge(t *testing.T) {
	c := NewCell(2.5)
	c.Discharge(1.0)
	if c.RemainingCapacity() != 1.5 {
		t.Errorf("expected 1.5, got %f", c.RemainingCapacity())
	}

	c.Discharge(2.0)
	if c.RemainingCapacity() != -0.5 {
		t.Errorf("discharge past empty should go negative, got %f", c.RemainingCapacity())
	}

	c.FullRecharge()
	if c.RemainingCapacity() != c.MaxCapacity() {
		t.Errorf("recharge: remaining %f != max %f", c.RemainingCapacity(), c.MaxCapacity())
	}
	if c.Voltage() != 3.7 {
		t.Errorf("expected 3.7V, got %f", c.Voltage())
	}
}

func TestPackFigures(t *testing.T) {
	for name, newPack := range packVariants {
		t.Run(name, func(t *testing.T) {
			p, err := newPack(6, 5.0, 716)
			if err != nil {
				t.Fatalf("new pack: %v", err)
			}
			if !approx(p.Voltage(), 6*CellVoltage) {
				t.Errorf("voltage = %f, want %f", p.Voltage(), 6*CellVoltage)
			}
			if !approx(p.MaxCapacity(), 5.0) {
				t.Errorf("max capacity = %f, want 5", p.MaxCapacity())
			}
			if p.Weight() != 716 {
				t.Errorf("weight = %f, want 716", p.Weight())
			}

			p.Discharge(1.2)
			if !approx(p.RemainingCapacity(), 3.8) {
				t.Errorf("remaining = %f, want 3.8", p.RemainingCapacity())
			}
		})
	}
}

func TestPackRoundTrip(t *testing.T) {
	for name, newPack := range packVariants {
		t.Run(name, func(t *testing.T) {
			p, _ := newPack(4, 3.3, 300)
			p.Discharge(10)
			p.FullRecharge()
			p.FullRecharge()
			if p.RemainingCapacity() != p.MaxCapacity() {
				t.Errorf("remaining %v != max %v after recharge", p.RemainingCapacity(), p.MaxCapacity())
			}
		})
	}
}

var additivityAmounts = [][2]float64{{0.1, 0.2}, {1.5, 2.5}, {3, 4}, {0, 0.7}, {6, 9}}

func TestCellDischargeAdditivity(t *testing.T) {
	for _, ab := range additivityAmounts {
		split, once := NewCell(2.5), NewCell(2.5)

		split.Discharge(ab[0])
		split.Discharge(ab[1])
		once.Discharge(ab[0] + ab[1])

		if !approx(split.RemainingCapacity(), once.RemainingCapacity()) {
			t.Errorf("a=%v b=%v: %v != %v", ab[0], ab[1], split.RemainingCapacity(), once.RemainingCapacity())
		}
	}
}

func TestPackDischargeAdditivity(t *testing.T) {
	for name, newPack := range packVariants {
		for _, ab := range additivityAmounts {
			split, _ := newPack(6, 5, 716)
			once, _ := newPack(6, 5, 716)

			split.Discharge(ab[0])
			split.Discharge(ab[1])
			once.Discharge(ab[0] + ab[1])

			if !approx(split.RemainingCapacity(), once.RemainingCapacity()) {
				t.Errorf("%s: a=%v b=%v: %v != %v", name, ab[0], ab[1], split.RemainingCapacity(), once.RemainingCapacity())
			}
		}
	}
}

func TestBankDischargeAdditivity(t *testing.T) {
	grids := []struct{ s, p int }{{1, 1}, {2, 3}, {3, 2}, {1, 4}}

	for packName, newPack := range packVariants {
		for bankName, newBank := range bankVariants {
			for _, g := range grids {
				for _, ab := range additivityAmounts {
					pack, _ := newPack(6, 5, 716)
					split, _ := newBank(pack, g.s, g.p)
					once, _ := newBank(pack, g.s, g.p)

					split.Discharge(ab[0])
					split.Discharge(ab[1])
					once.Discharge(ab[0] + ab[1])

					if !approx(split.RemainingCapacity(), once.RemainingCapacity()) {
						t.Errorf("%s/%s %dS%dP: a=%v b=%v: %v != %v", packName, bankName, g.s, g.p,
							ab[0], ab[1], split.RemainingCapacity(), once.RemainingCapacity())
					}
					if !approx(split.ChargePercentage(), once.ChargePercentage()) {
						t.Errorf("%s/%s %dS%dP: charge %v != %v", packName, bankName, g.s, g.p,
							split.ChargePercentage(), once.ChargePercentage())
					}
				}
			}
		}
	}
}

func TestPackCloneIndependent(t *testing.T) {
	for name, newPack := range packVariants {
		t.Run(name, func(t *testing.T) {
			p, _ := newPack(6, 5, 716)
			cp := p.Clone()
			cp.Discharge(2)

			if p.RemainingCapacity() != p.MaxCapacity() {
				t.Error("discharging a clone changed the original")
			}
			if approx(cp.RemainingCapacity(), p.RemainingCapacity()) {
				t.Error("clone did not discharge")
			}
			if cp.CellsInSeries() != 6 || cp.Weight() != 716 {
				t.Error("clone lost its design")
			}
		})
	}
}

func TestSimplePackCloneKeepsVariant(t *testing.T) {
	p, _ := NewSimplePack(6, 5, 716)
	if _, ok := p.Clone().(*SimplePack); !ok {
		t.Errorf("expected *SimplePack clone, got %T", p.Clone())
	}
}

func TestPackInvalidConfig(t *testing.T) {
	tests := []struct {
		name     string
		cells    int
		capacity float64
		weight   float64
	}{
		{"zero cells", 0, 5, 100},
		{"negative cells", -2, 5, 100},
		{"zero capacity", 6, 0, 100},
		{"negative weight", 6, 5, -1},
	}

	for name, newPack := range packVariants {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				_, err := newPack(tt.cells, tt.capacity, tt.weight)
				if !errors.Is(err, dynamo.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	}
}

func TestBankScaling(t *testing.T) {
	grids := []struct{ s, p int }{{1, 1}, {2, 3}, {3, 2}, {4, 1}, {1, 4}}

	for packName, newPack := range packVariants {
		for bankName, newBank := range bankVariants {
			for _, g := range grids {
				pack, _ := newPack(6, 5, 716)
				b, err := newBank(pack, g.s, g.p)
				if err != nil {
					t.Fatalf("new bank: %v", err)
				}

				label := packName + "/" + bankName
				if !approx(b.Weight(), float64(g.s*g.p)*716) {
					t.Errorf("%s %dS%dP: weight = %f, want %f", label, g.s, g.p, b.Weight(), float64(g.s*g.p)*716)
				}
				if !approx(b.MaxCapacity(), float64(g.p)*5) {
					t.Errorf("%s %dS%dP: capacity = %f, want %f", label, g.s, g.p, b.MaxCapacity(), float64(g.p)*5)
				}
				if !approx(b.Voltage(), float64(g.s)*6*CellVoltage) {
					t.Errorf("%s %dS%dP: voltage = %f, want %f", label, g.s, g.p, b.Voltage(), float64(g.s)*6*CellVoltage)
				}
				if b.ChargePercentage() != 1 {
					t.Errorf("%s: new bank charge = %f", label, b.ChargePercentage())
				}
			}
		}
	}
}

func TestBankVariantsAgree(t *testing.T) {
	pack, _ := NewDetailedPack(6, 5, 716)
	detailed, _ := NewDetailedBank(pack, 2, 3)
	simple, _ := NewSimpleBank(pack, 2, 3)

	for i := 0; i < 50; i++ {
		detailed.Draw(4500, 0.5)
		simple.Draw(4500, 0.5)
	}

	if !approx(detailed.RemainingCapacity(), simple.RemainingCapacity()) {
		t.Errorf("remaining differs: detailed %f, simple %f", detailed.RemainingCapacity(), simple.RemainingCapacity())
	}
	if !approx(detailed.ChargePercentage(), simple.ChargePercentage()) {
		t.Errorf("charge differs: detailed %f, simple %f", detailed.ChargePercentage(), simple.ChargePercentage())
	}
}

func TestBankDischargeRemovesRequestedCharge(t *testing.T) {
	for name, newBank := range bankVariants {
		t.Run(name, func(t *testing.T) {
			pack, _ := NewDetailedPack(6, 5, 716)
			b, _ := newBank(pack, 2, 3)

			b.Discharge(4.5)
			if !approx(b.RemainingCapacity(), 15-4.5) {
				t.Errorf("remaining = %f, want %f", b.RemainingCapacity(), 10.5)
			}
			if !approx(b.ChargePercentage(), 10.5/15) {
				t.Errorf("charge = %f, want %f", b.ChargePercentage(), 10.5/15)
			}
		})
	}
}

func TestBankDraw(t *testing.T) {
	pack, _ := NewSimplePack(6, 5, 716)
	b, _ := NewSimpleBank(pack, 2, 3)

	power, dt := 4440.0, 36.0
	b.Draw(power, dt)

	current := power / b.Voltage()
	want := 15 - current*dt/3600
	if !approx(b.RemainingCapacity(), want) {
		t.Errorf("remaining = %f, want %f", b.RemainingCapacity(), want)
	}
}

func TestBankRoundTripAndOverDischarge(t *testing.T) {
	for name, newBank := range bankVariants {
		t.Run(name, func(t *testing.T) {
			pack, _ := NewDetailedPack(6, 5, 716)
			b, _ := newBank(pack, 2, 3)

			b.Discharge(40)
			if b.ChargePercentage() >= 0 {
				t.Errorf("expected negative charge after over-discharge, got %f", b.ChargePercentage())
			}

			b.FullRecharge()
			if b.RemainingCapacity() != b.MaxCapacity() {
				t.Errorf("remaining %v != max %v", b.RemainingCapacity(), b.MaxCapacity())
			}
		})
	}
}

func TestDetailedBankPositionsIndependent(t *testing.T) {
	pack, _ := NewDetailedPack(6, 5, 716)
	b, _ := NewDetailedBank(pack, 2, 2)

	b.Pack(0, 0).Discharge(1)
	if b.Pack(1, 1).RemainingCapacity() != b.Pack(1, 1).MaxCapacity() {
		t.Error("grid positions share state")
	}
	if pack.RemainingCapacity() != pack.MaxCapacity() {
		t.Error("bank aliases the template pack")
	}
}

func TestBankInvalidConfig(t *testing.T) {
	pack, _ := NewSimplePack(6, 5, 716)
	tests := []struct {
		name string
		pack Pack
		s, p int
	}{
		{"nil pack", nil, 1, 1},
		{"zero series", pack, 0, 1},
		{"zero parallel", pack, 1, 0},
		{"negative parallel", pack, 2, -3},
	}

	for name, newBank := range bankVariants {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				_, err := newBank(tt.pack, tt.s, tt.p)
				if !errors.Is(err, dynamo.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	}
}
