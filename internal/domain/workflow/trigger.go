package workflow

// Trigger represents an owner decision that can cause a state transition
type Trigger string

const (
	TriggerApprove Trigger = "APPROVE"
	TriggerReject  Trigger = "REJECT"
)

// TriggerFor maps an owner's approve/reject decision to its trigger
func TriggerFor(approved bool) Trigger {
	if approved {
		return TriggerApprove
	}
	return TriggerReject
}

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
