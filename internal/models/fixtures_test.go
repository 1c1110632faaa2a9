package models

import (
	"github.com/san-kum/dronesim/internal/battery"
	"github.com/san-kum/dronesim/internal/generator"
	"github.com/san-kum/dronesim/internal/powertrain"
)

var xrotor8120 = []powertrain.Sample{
	{Thrust: 2017, Power: 145.3}, {Thrust: 2985, Power: 236.2}, {Thrust: 3981, Power: 352.6},
	{Thrust: 5027, Power: 489.6}, {Thrust: 5983, Power: 643.2}, {Thrust: 6999, Power: 812.6},
	{Thrust: 7978, Power: 973.4}, {Thrust: 9006, Power: 1171}, {Thrust: 9990, Power: 1345},
	{Thrust: 10983, Power: 1577}, {Thrust: 11975, Power: 1768.2}, {Thrust: 13007, Power: 2010.4},
	{Thrust: 13956, Power: 2291},
}

const (
	frameWeight   = 5000.0
	payloadWeight = 10/2.20462*1000 + (645+85+180)*6
)

type fixture struct {
	bank  battery.Bank
	train *powertrain.Powertrain
	gen   *generator.Generator
	drone *Drone
}

// newFixture builds the reference hexacopter: 2S3P bank of 6S 5Ah packs,
// six X-Rotor 8120 motors and a 5kW generator with tankLitres of fuel.
func newFixture(simple bool, tankLitres float64) (*fixture, error) {
	var (
		pack battery.Pack
		bank battery.Bank
		err  error
	)
	if simple {
		if pack, err = battery.NewSimplePack(6, 5, 716); err != nil {
			return nil, err
		}
		bank, err = battery.NewSimpleBank(pack, 2, 3)
	} else {
		if pack, err = battery.NewDetailedPack(6, 5, 716); err != nil {
			return nil, err
		}
		bank, err = battery.NewDetailedBank(pack, 2, 3)
	}
	if err != nil {
		return nil, err
	}

	curve, err := powertrain.NewPowerCurve(xrotor8120)
	if err != nil {
		return nil, err
	}
	motor, err := powertrain.NewMotor("hobbywing-xrotor-8120", 236.15, 12*battery.CellVoltage, curve)
	if err != nil {
		return nil, err
	}
	train, err := powertrain.New(motor, 6)
	if err != nil {
		return nil, err
	}

	gen, err := generator.New(generator.Params{
		DryWeight:       7200,
		MaxPower:        5000,
		FuelConsumption: 750,
		TankCapacity:    tankLitres,
		FuelDensity:     780,
	})
	if err != nil {
		return nil, err
	}

	d, err := NewDrone(bank, train, gen, frameWeight, payloadWeight)
	if err != nil {
		return nil, err
	}
	return &fixture{bank: bank, train: train, gen: gen, drone: d}, nil
}
