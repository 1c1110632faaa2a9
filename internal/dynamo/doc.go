// Package dynamo provides the shared primitives of the drone energy simulation.
//
// The package defines the value objects and interfaces passed between the
// physical models and the simulation driver:
//
//   - [StepResult]: power and thrust breakdown of one simulated step
//   - [Record]: a step result together with the vehicle state after the step
//   - [Metric]: aggregates records into a single figure of merit
//   - [Observer]: receives every record as it is produced
//
// # Example
//
//	d, _ := models.NewDrone(bank, train, gen, 5000, 9996)
//	res := d.RunStep(0.5)
//	fmt.Println(res.BatteryPowerDraw)
//
// # Thread Safety
//
// Models built on these types are NOT thread-safe. A single drone must be
// stepped by one goroutine; run independent drones in parallel instead.
package dynamo
