package workflow

// State represents a booking state in the approval lifecycle
type State string

const (
	StateWaiting  State = "WAITING"
	StateApproved State = "APPROVED"
	StateRejected State = "REJECTED"
)

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	switch s {
	case StateApproved, StateRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid booking state.
// It must not depend on package variables: the booking rules are built
// during package initialization and call it.
func (s State) IsValid() bool {
	switch s {
	case StateWaiting, StateApproved, StateRejected:
		return true
	default:
		return false
	}
}
