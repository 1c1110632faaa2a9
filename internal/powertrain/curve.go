// Package powertrain maps between thrust and electrical power for a fleet of
// identical motors, using a power law fitted to bench datapoints.
package powertrain

import (
	"fmt"
	"math"

	"github.com/san-kum/dronesim/internal/dynamo"
)

// Sample is one bench measurement: thrust in grams-force, power in watts.
type Sample struct {
	Thrust float64 `yaml:"thrust" json:"thrust" validate:"gt=0"`
	Power  float64 `yaml:"power" json:"power" validate:"gt=0"`
}

// PowerCurve is the fit power = coefficient * thrust^exponent. It is
// immutable once built.
type PowerCurve struct {
	coefficient float64
	exponent    float64
	rSquared    float64
	minThrust   float64
	maxThrust   float64
}

// NewPowerCurve fits the curve by ordinary least squares on
// (ln thrust, ln power).
func NewPowerCurve(samples []Sample) (*PowerCurve, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", dynamo.ErrDegenerateFit, n)
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	c := &PowerCurve{minThrust: math.Inf(1), maxThrust: math.Inf(-1)}
	for i, s := range samples {
		if !(s.Thrust > 0) || !(s.Power > 0) || math.IsInf(s.Thrust, 0) || math.IsInf(s.Power, 0) {
			return nil, fmt.Errorf("%w: sample %d (%g, %g) is not positive and finite", dynamo.ErrDegenerateFit, i, s.Thrust, s.Power)
		}
		xs[i], ys[i] = math.Log(s.Thrust), math.Log(s.Power)
		c.minThrust = math.Min(c.minThrust, s.Thrust)
		c.maxThrust = math.Max(c.maxThrust, s.Thrust)
	}

	slope, intercept, r2, err := fitLine(xs, ys)
	if err != nil {
		return nil, err
	}
	if slope == 0 {
		return nil, fmt.Errorf("%w: power does not vary with thrust", dynamo.ErrDegenerateFit)
	}

	c.coefficient = math.Exp(intercept)
	c.exponent = slope
	c.rSquared = r2
	return c, nil
}

// fitLine solves the centered normal equations for y = slope*x + intercept.
func fitLine(xs, ys []float64) (slope, intercept, r2 float64, err error) {
	n := float64(len(xs))
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	mx /= n
	my /= n

	var sxx, sxy, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	// relative to the spread of ln(thrust) around its mean magnitude
	if sxx <= 1e-12*n*math.Max(1, mx*mx) {
		return 0, 0, 0, fmt.Errorf("%w: thrust samples are (nearly) identical", dynamo.ErrDegenerateFit)
	}

	slope = sxy / sxx
	intercept = my - slope*mx
	r2 = 1
	if syy > 0 {
		r2 = sxy * sxy / (sxx * syy)
	}
	return slope, intercept, r2, nil
}

// XToY maps thrust to power.
func (c *PowerCurve) XToY(thrust float64) float64 {
	return c.coefficient * math.Pow(thrust, c.exponent)
}

// YToX maps power to thrust.
func (c *PowerCurve) YToX(power float64) float64 {
	return math.Pow(power/c.coefficient, 1/c.exponent)
}

func (c *PowerCurve) Coefficient() float64 { return c.coefficient }
func (c *PowerCurve) Exponent() float64    { return c.exponent }
func (c *PowerCurve) RSquared() float64    { return c.rSquared }

// Range is the span of thrust covered by the fitted samples.
func (c *PowerCurve) Range() (minThrust, maxThrust float64) {
	return c.minThrust, c.maxThrust
}

func (c *PowerCurve) String() string {
	return fmt.Sprintf("P = %.6g * T^%.4f (r2=%.4f)", c.coefficient, c.exponent, c.rSquared)
}
