package bookings

import (
	"strings"
	"time"

	"cinebook/internal/payments"

	"github.com/google/uuid"
)

// Booking defines the main booking structure. Seats are stored comma-joined;
// the authoritative per-seat rows live in the seats table keyed by BookingID.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	MovieID    uuid.UUID `gorm:"type:uuid;index;not null" json:"movie_id"`
	Seats      string    `gorm:"not null" json:"-"`
	SeatCount  int       `gorm:"not null" json:"seat_count"`
	TotalPrice float64   `gorm:"not null" json:"total_price"`
	Status     string    `gorm:"type:varchar(20);default:'CONFIRMED'" json:"status"`
	BookingRef string    `gorm:"unique;not null" json:"booking_ref"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relationships
	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// Payment defines the structure for payment tracking
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status        string     `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionID string     `gorm:"unique" json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// SeatLabels splits the stored comma-joined seat set.
func (b *Booking) SeatLabels() []string {
	if b.Seats == "" {
		return []string{}
	}
	return strings.Split(b.Seats, ",")
}

// JoinSeats builds the stored representation of a seat set.
func JoinSeats(labels []string) string {
	return strings.Join(labels, ",")
}

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	MovieID       string   `json:"movie_id" binding:"required,uuid"`
	Seats         []string `json:"seats" binding:"required,min=1"`
	TheaterType   string   `json:"theater_type"`
	Discounts     []string `json:"discounts"`
	Extras        []string `json:"extras"`
	PaymentMethod string   `json:"payment_method" binding:"required"`
	PayerInfo     string   `json:"payer_info" binding:"required"`
}

// BookingResponse represents a confirmed booking in API responses
type BookingResponse struct {
	ID         string            `json:"id"`
	BookingRef string            `json:"booking_ref"`
	MovieID    string            `json:"movie_id"`
	Seats      []string          `json:"seats"`
	SeatCount  int               `json:"seat_count"`
	TotalPrice float64           `json:"total_price"`
	Status     string            `json:"status"`
	Payment    *payments.Receipt `json:"payment,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ToResponse converts a booking to its API representation
func (b *Booking) ToResponse(receipt *payments.Receipt) *BookingResponse {
	return &BookingResponse{
		ID:         b.ID.String(),
		BookingRef: b.BookingRef,
		MovieID:    b.MovieID.String(),
		Seats:      b.SeatLabels(),
		SeatCount:  b.SeatCount,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		Payment:    receipt,
		CreatedAt:  b.CreatedAt,
	}
}
