package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when the current state has no rule for a trigger
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned for a state outside WAITING, APPROVED, REJECTED
	ErrInvalidState = errors.New("invalid state")
)
