package workflow

import (
	"context"
	"fmt"
)

var bookingBuilder = newBookingBuilder()

func newBookingBuilder() StateMachineBuilder {
	b := NewBuilder()
	b.Configure(StateWaiting).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)
	return b
}

// NewBookingMachine returns a booking state machine positioned at the given state.
// Unknown states are reported as ErrInvalidState instead of panicking.
func NewBookingMachine(current State) (StateMachine, error) {
	if !current.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, current)
	}
	return bookingBuilder.Build(current), nil
}

// Decide computes the state a booking moves to when its owner approves or rejects it
func Decide(ctx context.Context, current State, approved bool) (State, error) {
	if current.IsTerminal() {
		return "", fmt.Errorf("%w: %s is final", ErrInvalidTransition, current)
	}

	m, err := NewBookingMachine(current)
	if err != nil {
		return "", err
	}
	if err := m.Fire(ctx, TriggerFor(approved)); err != nil {
		return "", err
	}
	return m.State(), nil
}
