package seats

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps the occupied set in memory with the same
// all-or-nothing contract as the Postgres implementation.
type fakeRepository struct {
	mu       sync.Mutex
	occupied map[uuid.UUID]map[string]uuid.UUID
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{occupied: make(map[uuid.UUID]map[string]uuid.UUID)}
}

func (f *fakeRepository) OccupiedLabels(ctx context.Context, movieID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	labels := make([]string, 0, len(f.occupied[movieID]))
	for label := range f.occupied[movieID] {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels, nil
}

func (f *fakeRepository) AreOccupied(ctx context.Context, movieID uuid.UUID, labels []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var taken []string
	for _, label := range labels {
		if _, ok := f.occupied[movieID][label]; ok {
			taken = append(taken, label)
		}
	}
	sort.Strings(taken)
	return taken, nil
}

func (f *fakeRepository) Reserve(ctx context.Context, movieID, bookingID uuid.UUID, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var taken []string
	for _, label := range labels {
		if _, ok := f.occupied[movieID][label]; ok {
			taken = append(taken, label)
		}
	}
	if len(taken) > 0 {
		sort.Strings(taken)
		return &SeatConflictError{MovieID: movieID.String(), Seats: taken}
	}
	if f.occupied[movieID] == nil {
		f.occupied[movieID] = make(map[string]uuid.UUID)
	}
	for _, label := range labels {
		f.occupied[movieID][label] = bookingID
	}
	return nil
}

// fakeCache records sets and deletes so tests can assert on invalidation.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	setTTLs map[string]time.Duration
	deleted []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		setTTLs: make(map[string]time.Duration),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.entries[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = data
	f.setTTLs[key] = ttl
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, pattern)
	return nil
}

func (f *fakeCache) Ping(ctx context.Context) error { return nil }

func TestValidSeatLabel(t *testing.T) {
	tests := []struct {
		label string
		valid bool
	}{
		{"A1", true},
		{"A12", true},
		{"H12", true},
		{"H1", true},
		{"A0", false},
		{"A13", false},
		{"I1", false},
		{"a1", false},
		{"", false},
		{"A", false},
		{"AA", false},
		{"1A", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, ValidSeatLabel(tt.label), "label %q", tt.label)
	}
}

func TestValidateLabels(t *testing.T) {
	svc := NewService(newFakeRepository())

	assert.ErrorIs(t, svc.ValidateLabels(nil), ErrNoSeats)
	assert.ErrorIs(t, svc.ValidateLabels([]string{"Z9"}), ErrInvalidSeatLabel)
	assert.ErrorIs(t, svc.ValidateLabels([]string{"A1", "A1"}), ErrDuplicateSeats)
	assert.NoError(t, svc.ValidateLabels([]string{"A1", "B2", "H12"}))
}

func TestReserveAllOrNothing(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movieID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, movieID, uuid.New(), []string{"A1", "A2"}))

	// Overlapping attempt fails and reserves none of the requested seats
	err := svc.Reserve(ctx, movieID, uuid.New(), []string{"A1", "A3"})
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"A1"}, conflict.Seats)

	occupancy, err := svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "A2"}, occupancy.OccupiedSeats)
	assert.Equal(t, 96, occupancy.TotalSeats)
}

func TestReserveConflictReportsAllTakenSeats(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movieID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.Reserve(ctx, movieID, uuid.New(), []string{"A1", "B5", "C7"}))

	err := svc.Reserve(ctx, movieID, uuid.New(), []string{"A1", "B5", "D1"})
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"A1", "B5"}, conflict.Seats)
}

func TestReserveIndependentMovies(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	first := uuid.New()
	second := uuid.New()

	// The same label is a different seat for a different movie
	require.NoError(t, svc.Reserve(ctx, first, uuid.New(), []string{"A1"}))
	require.NoError(t, svc.Reserve(ctx, second, uuid.New(), []string{"A1"}))
}

func TestConcurrentDisjointReservations(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movieID := uuid.New()
	ctx := context.Background()

	rows := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var wg sync.WaitGroup
	errs := make([]error, len(rows))
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row string) {
			defer wg.Done()
			labels := []string{row + "1", row + "2", row + "3"}
			errs[i] = svc.Reserve(ctx, movieID, uuid.New(), labels)
		}(i, row)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "row %s", rows[i])
	}
	occupancy, err := svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Len(t, occupancy.OccupiedSeats, len(rows)*3)
}

func TestReserveInvalidatesOccupancyCache(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	fc := newFakeCache()
	svc.SetCacheService(fc, 0)

	movieID := uuid.New()
	ctx := context.Background()
	key := constants.SeatOccupancyKey(movieID.String())

	// Populate the cache, then reserve and read again
	occupancy, err := svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Empty(t, occupancy.OccupiedSeats)
	assert.Equal(t, constants.TTL_SEAT_OCCUPANCY, fc.setTTLs[key])

	require.NoError(t, svc.Reserve(ctx, movieID, uuid.New(), []string{"C3"}))
	assert.Contains(t, fc.deleted, key)

	occupancy, err = svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Equal(t, []string{"C3"}, occupancy.OccupiedSeats)
}

func TestInvalidateOccupancyDropsCachedSet(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	fc := newFakeCache()
	svc.SetCacheService(fc, 5*time.Second)

	movieID := uuid.New()
	ctx := context.Background()
	key := constants.SeatOccupancyKey(movieID.String())

	_, err := svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, fc.setTTLs[key])

	// Seat rows written outside the service leave the cache stale until an
	// explicit invalidation lands
	require.NoError(t, repo.Reserve(ctx, movieID, uuid.New(), []string{"D4"}))
	occupancy, err := svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Empty(t, occupancy.OccupiedSeats)

	svc.InvalidateOccupancy(ctx, movieID)
	occupancy, err = svc.GetOccupancy(ctx, movieID)
	require.NoError(t, err)
	assert.Equal(t, []string{"D4"}, occupancy.OccupiedSeats)
}

func TestCheckAvailability(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)
	movieID := uuid.New()
	ctx := context.Background()

	require.NoError(t, svc.CheckAvailability(ctx, movieID, []string{"A1"}))
	require.NoError(t, svc.Reserve(ctx, movieID, uuid.New(), []string{"A1"}))

	err := svc.CheckAvailability(ctx, movieID, []string{"A1", "A2"})
	var conflict *SeatConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []string{"A1"}, conflict.Seats)
}
