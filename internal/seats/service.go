package seats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"

	"github.com/google/uuid"
)

var ErrInvalidSeatLabel = errors.New("seat label is outside the auditorium grid")
var ErrNoSeats = errors.New("at least one seat is required")
var ErrDuplicateSeats = errors.New("duplicate seat labels in request")

type Service interface {
	GetOccupancy(ctx context.Context, movieID uuid.UUID) (*OccupancyResponse, error)
	IsOccupied(ctx context.Context, movieID uuid.UUID, label string) (bool, error)
	CheckAvailability(ctx context.Context, movieID uuid.UUID, labels []string) error
	Reserve(ctx context.Context, movieID, bookingID uuid.UUID, labels []string) error
	InvalidateOccupancy(ctx context.Context, movieID uuid.UUID)
	ValidateLabels(labels []string) error
	SetCacheService(cacheService cache.Service, occupancyTTL time.Duration)
}

type service struct {
	repo         Repository
	cacheService cache.Service
	occupancyTTL time.Duration
	log          *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:         repo,
		occupancyTTL: constants.TTL_SEAT_OCCUPANCY,
		log:          logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency. A non-positive TTL
// keeps the default occupancy staleness bound.
func (s *service) SetCacheService(cacheService cache.Service, occupancyTTL time.Duration) {
	s.cacheService = cacheService
	if occupancyTTL > 0 {
		s.occupancyTTL = occupancyTTL
	}
}

// ValidateLabels rejects empty requests, labels outside the grid, and
// repeated labels within a single request.
func (s *service) ValidateLabels(labels []string) error {
	if len(labels) == 0 {
		return ErrNoSeats
	}
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if !ValidSeatLabel(label) {
			return fmt.Errorf("%w: %s", ErrInvalidSeatLabel, label)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSeats, label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

func (s *service) GetOccupancy(ctx context.Context, movieID uuid.UUID) (*OccupancyResponse, error) {
	cacheKey := constants.SeatOccupancyKey(movieID.String())

	if s.cacheService != nil {
		var cached OccupancyResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	labels, err := s.repo.OccupiedLabels(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if labels == nil {
		labels = []string{}
	}
	resp := &OccupancyResponse{
		MovieID:       movieID.String(),
		OccupiedSeats: labels,
		TotalSeats:    GridRows * GridColumns,
	}

	if s.cacheService != nil {
		// Cache failures never fail the request
		_ = s.cacheService.Set(ctx, cacheKey, resp, s.occupancyTTL)
	}
	return resp, nil
}

func (s *service) IsOccupied(ctx context.Context, movieID uuid.UUID, label string) (bool, error) {
	taken, err := s.repo.AreOccupied(ctx, movieID, []string{label})
	if err != nil {
		return false, err
	}
	return len(taken) > 0, nil
}

// CheckAvailability is an advisory read used before payment. The
// authoritative check happens again under lock at commit time.
func (s *service) CheckAvailability(ctx context.Context, movieID uuid.UUID, labels []string) error {
	taken, err := s.repo.AreOccupied(ctx, movieID, labels)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		return &SeatConflictError{MovieID: movieID.String(), Seats: taken}
	}
	return nil
}

func (s *service) Reserve(ctx context.Context, movieID, bookingID uuid.UUID, labels []string) error {
	if err := s.ValidateLabels(labels); err != nil {
		return err
	}
	if err := s.repo.Reserve(ctx, movieID, bookingID, labels); err != nil {
		var conflict *SeatConflictError
		if errors.As(err, &conflict) {
			s.log.LogSeatConflict(ctx, movieID.String(), conflict.Seats)
		}
		return err
	}
	s.InvalidateOccupancy(ctx, movieID)
	return nil
}

// InvalidateOccupancy drops the cached occupied-seat set for a movie. Callers
// that write seat rows outside this service (the booking commit does) must
// call it after the write lands, or reads serve the sold seats as free until
// the TTL expires.
func (s *service) InvalidateOccupancy(ctx context.Context, movieID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.Delete(ctx, constants.SeatOccupancyKey(movieID.String()))
}
