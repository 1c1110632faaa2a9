package config

import (
	"sort"

	"github.com/san-kum/dronesim/internal/battery"
	"github.com/san-kum/dronesim/internal/powertrain"
)

// MotorSpec is a catalog entry: bench datapoints plus the unit price and
// rated voltage of one motor.
type MotorSpec struct {
	Name       string              `yaml:"name" json:"name"`
	Cost       float64             `yaml:"cost" json:"cost"`
	Voltage    float64             `yaml:"voltage" json:"voltage"`
	Datapoints []powertrain.Sample `yaml:"datapoints" json:"datapoints"`
}

// Motors holds the bench tables the designer can choose from. Thrust is in
// grams-force, power in watts, measured per motor.
var Motors = map[string]MotorSpec{
	"hobbywing-xrotor-8120": {
		Name:    "Hobbywing X-Rotor 8120",
		Cost:    236.15,
		Voltage: 12 * battery.CellVoltage,
		Datapoints: []powertrain.Sample{
			{Thrust: 2017, Power: 145.3},
			{Thrust: 2985, Power: 236.2},
			{Thrust: 3981, Power: 352.6},
			{Thrust: 5027, Power: 489.6},
			{Thrust: 5983, Power: 643.2},
			{Thrust: 6999, Power: 812.6},
			{Thrust: 7978, Power: 973.4},
			{Thrust: 9006, Power: 1171},
			{Thrust: 9990, Power: 1345},
			{Thrust: 10983, Power: 1577},
			{Thrust: 11975, Power: 1768.2},
			{Thrust: 13007, Power: 2010.4},
			{Thrust: 13956, Power: 2291},
		},
	},
}

func ListMotors() []string {
	names := make([]string, 0, len(Motors))
	for name := range Motors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Curve fits a power law to the bench table.
func (m MotorSpec) Curve() (*powertrain.PowerCurve, error) {
	return powertrain.NewPowerCurve(m.Datapoints)
}
