package flow

// State is a step of the per-invocation state machine.
type State string

const (
	StateReceived       State = "received"
	StatePreChecked     State = "pre-checked"
	StateShortCircuited State = "short-circuited"
	StatePrompted       State = "prompted"
	StateInvoked        State = "invoked"
	StateValidated      State = "validated"
	StateReturned       State = "returned"
)
