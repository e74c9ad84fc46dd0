package bookings

// State tracks where a booking attempt is in its lifecycle. Attempts move
// strictly forward and end in Confirmed or Aborted.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StatePricing    State = "PRICING"
	StatePaying     State = "PAYING"
	StateCommitting State = "COMMITTING"
	StateConfirmed  State = "CONFIRMED"
	StateAborted    State = "ABORTED"
)
