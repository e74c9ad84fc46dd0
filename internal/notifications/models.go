package notifications

import (
	"encoding/json"
	"time"
)

// BookingConfirmedEvent is published after a booking commits.
type BookingConfirmedEvent struct {
	BookingID     string    `json:"booking_id"`
	BookingRef    string    `json:"booking_ref"`
	UserID        string    `json:"user_id"`
	MovieID       string    `json:"movie_id"`
	Seats         []string  `json:"seats"`
	TotalPrice    float64   `json:"total_price"`
	TransactionID string    `json:"transaction_id"`
	ConfirmedAt   time.Time `json:"confirmed_at"`
}

// RefundRequiredEvent is published when a charge was captured but the
// booking commit failed. Operators work this queue to reverse the charge.
type RefundRequiredEvent struct {
	TransactionID string    `json:"transaction_id"`
	PaymentMethod string    `json:"payment_method"`
	Amount        float64   `json:"amount"`
	UserID        string    `json:"user_id"`
	MovieID       string    `json:"movie_id"`
	Seats         []string  `json:"seats"`
	Cause         string    `json:"cause"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (e *BookingConfirmedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func (e *RefundRequiredEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
