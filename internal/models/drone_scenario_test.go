package models

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	scenarioDt        = 0.5
	scenarioMinCharge = 0.15
)

// flyUntilDepleted steps d until the bank reaches minCharge and returns the
// number of steps taken, including the one that crossed the threshold.
func flyUntilDepleted(d *Drone, check func(step int, prevCharge float64)) int {
	steps := 0
	for {
		prev := d.ChargePercentage()
		d.RunStep(scenarioDt)
		steps++
		if check != nil {
			check(steps, prev)
		}
		if d.ChargePercentage() <= scenarioMinCharge {
			return steps
		}
		if steps > 1_000_000 {
			Fail("drone never depleted")
		}
	}
}

var _ = Describe("Drone", func() {
	for _, variant := range []struct {
		name   string
		simple bool
	}{{"detailed bank", false}, {"simple bank", true}} {
		Context("battery-only flight with an empty tank on a "+variant.name, func() {
			var f *fixture

			BeforeEach(func() {
				var err error
				f, err = newFixture(variant.simple, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(f.drone.ChargePercentage()).To(Equal(1.0))
			})

			It("draws everything from the battery and drains it monotonically", func() {
				weight := f.drone.Weight()
				flyUntilDepleted(f.drone, func(step int, prev float64) {
					Expect(f.drone.Weight()).To(Equal(weight))
					Expect(f.drone.ChargePercentage()).To(BeNumerically("<", prev))
				})
				Expect(f.drone.ChargePercentage()).To(BeNumerically("<=", scenarioMinCharge))
			})

			It("reports the generator idle on every step", func() {
				for i := 0; i < 100; i++ {
					res := f.drone.RunStep(scenarioDt)
					Expect(res.GeneratorPowerDraw).To(BeZero())
					Expect(res.BatteryPowerDraw).To(Equal(res.TotalPowerDraw))
				}
			})

			It("depletes in a reproducible number of steps", func() {
				first := flyUntilDepleted(f.drone, nil)

				f.drone.Reset()
				second := flyUntilDepleted(f.drone, nil)

				again, err := newFixture(variant.simple, 0)
				Expect(err).NotTo(HaveOccurred())
				third := flyUntilDepleted(again.drone, nil)

				Expect(second).To(Equal(first))
				Expect(third).To(Equal(first))
			})

			It("matches the closed-form step count for a constant load", func() {
				res := f.drone.RunStep(scenarioDt)
				f.drone.Reset()

				perStep := res.BatteryPowerDraw / f.bank.Voltage() * scenarioDt / 3600
				expected := (1 - scenarioMinCharge) * f.bank.MaxCapacity() / perStep

				Expect(float64(flyUntilDepleted(f.drone, nil))).To(BeNumerically("~", expected, 1.5))
			})
		})
	}

	Context("hybrid flight", func() {
		var f *fixture

		BeforeEach(func() {
			var err error
			f, err = newFixture(false, 6)
			Expect(err).NotTo(HaveOccurred())
		})

		It("burns fuel before touching the battery while under the generator rating", func() {
			res := f.drone.RunStep(scenarioDt)
			Expect(res.TotalPowerDraw).To(BeNumerically("<", f.gen.MaxPower))
			Expect(res.GeneratorPowerDraw).To(BeNumerically("~", res.TotalPowerDraw, 1e-6))
			Expect(f.drone.RemainingFuel()).To(BeNumerically("<", 6.0))
		})

		It("gets lighter as fuel burns", func() {
			prev := f.drone.Weight()
			for i := 0; i < 500; i++ {
				f.drone.RunStep(scenarioDt)
				Expect(f.drone.Weight()).To(BeNumerically("<=", prev))
				prev = f.drone.Weight()
			}
		})

		It("outlasts the same airframe flying on battery alone", func() {
			batteryOnly, err := newFixture(false, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(flyUntilDepleted(f.drone, nil)).To(BeNumerically(">", flyUntilDepleted(batteryOnly.drone, nil)))
		})
	})
})
