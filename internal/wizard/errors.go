package wizard

import (
	"errors"
	"fmt"
)

// ErrNoSteps is returned when a stepper is built without steps
var ErrNoSteps = errors.New("wizard needs at least one step")

// ErrStepDisabled is returned when jumping to a disabled step
var ErrStepDisabled = errors.New("step is disabled")

// ErrNotOptional is returned when skipping a required step
var ErrNotOptional = errors.New("current step is not optional")

// StepRangeError reports a step number outside [1, Total].
type StepRangeError struct {
	Step  int
	Total int
}

func (e *StepRangeError) Error() string {
	return fmt.Sprintf("step %d out of range [1, %d]", e.Step, e.Total)
}

// ValidationError wraps a failure raised by a step's validation hook, as
// opposed to the hook reporting the step as incomplete.
type ValidationError struct {
	Step  int
	Title string
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validating step %d (%s): %v", e.Step, e.Title, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
