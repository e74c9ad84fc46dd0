package seats

import (
	"time"

	"github.com/google/uuid"
)

// Seat rows are created lazily on first reservation; a row existing with
// occupied=true means the (movie, seat) pair is sold. The unique constraint
// on (movie_id, seat_label) is the last line of defence against races.
type Seat struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID   uuid.UUID  `json:"movie_id" gorm:"type:uuid;index;not null;uniqueIndex:unique_seat_per_movie"`
	SeatLabel string     `json:"seat_label" gorm:"size:10;not null;uniqueIndex:unique_seat_per_movie"`
	Occupied  bool       `json:"occupied" gorm:"not null;default:false"`
	BookingID *uuid.UUID `json:"booking_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at"`
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// Auditorium grid: rows A-H, columns 1-12.
const (
	GridRows    = 8
	GridColumns = 12
)

// ValidSeatLabel reports whether a label names a seat inside the fixed grid
// (e.g. "A1" through "H12").
func ValidSeatLabel(label string) bool {
	if len(label) < 2 || len(label) > 3 {
		return false
	}
	row := label[0]
	if row < 'A' || row >= 'A'+GridRows {
		return false
	}
	col := 0
	for _, ch := range label[1:] {
		if ch < '0' || ch > '9' {
			return false
		}
		col = col*10 + int(ch-'0')
	}
	return col >= 1 && col <= GridColumns
}

// OccupancyResponse lists a movie's occupied seat labels
type OccupancyResponse struct {
	MovieID       string   `json:"movie_id"`
	OccupiedSeats []string `json:"occupied_seats"`
	TotalSeats    int      `json:"total_seats"`
}
