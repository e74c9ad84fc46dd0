package seats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	OccupiedLabels(ctx context.Context, movieID uuid.UUID) ([]string, error)
	AreOccupied(ctx context.Context, movieID uuid.UUID, labels []string) ([]string, error)
	Reserve(ctx context.Context, movieID, bookingID uuid.UUID, labels []string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) OccupiedLabels(ctx context.Context, movieID uuid.UUID) ([]string, error) {
	var labels []string
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("movie_id = ? AND occupied = ?", movieID, true).
		Pluck("seat_label", &labels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load occupied seats: %w", err)
	}
	sort.Strings(labels)
	return labels, nil
}

func (r *repository) AreOccupied(ctx context.Context, movieID uuid.UUID, labels []string) ([]string, error) {
	var taken []string
	err := r.db.WithContext(ctx).
		Model(&Seat{}).
		Where("movie_id = ? AND occupied = ? AND seat_label IN ?", movieID, true, labels).
		Pluck("seat_label", &taken).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check seat occupancy: %w", err)
	}
	sort.Strings(taken)
	return taken, nil
}

func (r *repository) Reserve(ctx context.Context, movieID, bookingID uuid.UUID, labels []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ReserveTx(tx, movieID, bookingID, labels)
	})
}

// ReserveTx inserts seat rows for every requested label inside the caller's
// transaction. It is all-or-nothing: a pre-check under FOR UPDATE reports the
// full conflicting set, and the unique constraint on (movie_id, seat_label)
// catches anything that slips between concurrent transactions.
func ReserveTx(tx *gorm.DB, movieID, bookingID uuid.UUID, labels []string) error {
	var taken []string
	err := tx.Model(&Seat{}).
		Set("gorm:query_option", "FOR UPDATE").
		Where("movie_id = ? AND occupied = ? AND seat_label IN ?", movieID, true, labels).
		Pluck("seat_label", &taken).Error
	if err != nil {
		return fmt.Errorf("failed to lock seats: %w", err)
	}
	if len(taken) > 0 {
		sort.Strings(taken)
		return &SeatConflictError{MovieID: movieID.String(), Seats: taken}
	}

	rows := make([]Seat, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, Seat{
			MovieID:   movieID,
			SeatLabel: label,
			Occupied:  true,
			BookingID: &bookingID,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isDuplicateKey(err) {
			// lost the race; re-read to report the exact seats
			var taken []string
			if pluckErr := tx.Model(&Seat{}).
				Where("movie_id = ? AND occupied = ? AND seat_label IN ?", movieID, true, labels).
				Pluck("seat_label", &taken).Error; pluckErr == nil && len(taken) > 0 {
				sort.Strings(taken)
				return &SeatConflictError{MovieID: movieID.String(), Seats: taken}
			}
			return &SeatConflictError{MovieID: movieID.String(), Seats: labels}
		}
		return fmt.Errorf("failed to reserve seats: %w", err)
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
