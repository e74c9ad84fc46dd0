package seats

import (
	"fmt"
	"strings"
)

// SeatConflictError reports the exact seats that were already sold when a
// reservation was attempted. The attempt it belongs to reserves nothing.
type SeatConflictError struct {
	MovieID string
	Seats   []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already occupied for movie %s: %s", e.MovieID, strings.Join(e.Seats, ", "))
}
