package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when required text is blank.
	ErrEmptyInput = errors.New("input must not be empty")
	// ErrInvalidStep is returned when a command is not valid in the current step.
	ErrInvalidStep = errors.New("command not valid in the current step")
	// ErrNoSelection is returned when a command needs a selected solution or goal.
	ErrNoSelection = errors.New("nothing selected")
	// ErrOutOfRange is returned for scores or indexes outside their range.
	ErrOutOfRange = errors.New("value out of range")
	// ErrUnknownID is returned when selecting an id that does not exist.
	ErrUnknownID = errors.New("unknown id")
	// ErrFinalStep is returned when advancing past the summary.
	ErrFinalStep = errors.New("already at the final step")
)

// GateError reports an unmet condition for leaving a step.
type GateError struct {
	From   Step
	Reason string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("cannot leave %s: %s", e.From, e.Reason)
}

// IsGateError reports whether err wraps a GateError.
func IsGateError(err error) bool {
	var ge *GateError
	return errors.As(err, &ge)
}
