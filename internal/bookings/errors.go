package bookings

import (
	"errors"
	"fmt"

	"cinebook/internal/payments"
)

var (
	// ErrNotAuthenticated is returned before pricing or payment is touched.
	ErrNotAuthenticated = errors.New("booking requires an authenticated session")

	// ErrInvalidRequest covers unknown movies, malformed seat sets and
	// unknown extras. Wrapped errors carry the detail.
	ErrInvalidRequest = errors.New("invalid booking request")

	// ErrPaymentDeclined means the gateway refused or never confirmed the
	// charge. Nothing was persisted.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPersistenceFailure is a storage error before any money moved.
	ErrPersistenceFailure = errors.New("booking could not be persisted")
)

// RefundRequiredError is the one failure mode where money has moved: the
// charge was captured but the commit failed, so the transaction must be
// refunded out of band. The receipt identifies the charge to reverse.
type RefundRequiredError struct {
	Receipt *payments.Receipt
	Cause   error
}

func (e *RefundRequiredError) Error() string {
	return fmt.Sprintf("booking aborted after payment capture, refund transaction %s: %v",
		e.Receipt.TransactionID, e.Cause)
}

func (e *RefundRequiredError) Unwrap() error {
	return e.Cause
}
