package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// A (movie_id, seat_label) pair may be sold at most once. The seat ledger
	// relies on this constraint to turn a lost race into a unique violation
	// instead of a double-sold seat.
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_seat_per_movie
		ON seats (movie_id, seat_label);
	`).Error
	if err != nil {
		return err
	}

	// Index for occupied-seat lookups per movie
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_seats_movie_occupied
		ON seats (movie_id, occupied);
	`).Error
	if err != nil {
		return err
	}

	// Index for booking queries by user
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_user_id
		ON bookings (user_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
