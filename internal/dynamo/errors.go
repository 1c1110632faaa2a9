package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model construction and simulation runs.
var (
	// ErrInvalidConfig indicates a structural parameter that cannot describe a real vehicle.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrDegenerateFit indicates a sample table that cannot support a power-law fit.
	ErrDegenerateFit = errors.New("dynamo: degenerate power curve samples")

	// ErrInvalidStep indicates a step produced a NaN or Inf quantity.
	ErrInvalidStep = errors.New("dynamo: invalid step (NaN or Inf detected)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrUnknownMotor indicates a motor name missing from the catalog.
	ErrUnknownMotor = errors.New("dynamo: unknown motor")

	// ErrUnknownPreset indicates a preset name missing from the preset table.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrRunNotFound indicates a stored run id that does not exist.
	ErrRunNotFound = errors.New("dynamo: run not found")
)

// Invalid wraps ErrInvalidConfig with the offending parameter.
func Invalid(param string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, param, value)
}

// SimError wraps an error with simulation context.
type SimError struct {
	Step    int
	Time    float64
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
