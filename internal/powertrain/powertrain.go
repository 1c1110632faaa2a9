package powertrain

import "github.com/san-kum/dronesim/internal/dynamo"

type Motor struct {
	Name    string
	Cost    float64
	Voltage float64
	Curve   *PowerCurve
}

func NewMotor(name string, cost, voltage float64, curve *PowerCurve) (*Motor, error) {
	if curve == nil {
		return nil, dynamo.Invalid("power_curve", nil)
	}
	return &Motor{Name: name, Cost: cost, Voltage: voltage, Curve: curve}, nil
}

// Powertrain treats every motor as identical and splits demand evenly.
type Powertrain struct {
	motor          *Motor
	numberOfMotors int
}

func New(motor *Motor, numberOfMotors int) (*Powertrain, error) {
	if motor == nil {
		return nil, dynamo.Invalid("motor", nil)
	}
	if numberOfMotors <= 0 {
		return nil, dynamo.Invalid("number_of_motors", numberOfMotors)
	}
	return &Powertrain{motor: motor, numberOfMotors: numberOfMotors}, nil
}

func (p *Powertrain) Motor() *Motor       { return p.motor }
func (p *Powertrain) NumberOfMotors() int { return p.numberOfMotors }

// InstantaneousPower is the total electrical power needed for totalThrust.
func (p *Powertrain) InstantaneousPower(totalThrust float64) float64 {
	n := float64(p.numberOfMotors)
	return n * p.motor.Curve.XToY(totalThrust/n)
}

// InstantaneousThrust is the total thrust produced by totalPower.
func (p *Powertrain) InstantaneousThrust(totalPower float64) float64 {
	n := float64(p.numberOfMotors)
	return n * p.motor.Curve.YToX(totalPower/n)
}

func (p *Powertrain) Cost() float64 {
	return p.motor.Cost * float64(p.numberOfMotors)
}
