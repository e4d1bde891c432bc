package workflow

import "context"

// StateMachine tracks the current state of one booking and validates transitions
type StateMachine interface {
	State() State

	// Fire moves to the target state of the trigger's rule
	Fire(ctx context.Context, trigger Trigger) error
}
