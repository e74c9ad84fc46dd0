package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTL values for the cinebook application.
// Pattern: cinebook:{module}:{operation}:{identifier}

const (
	CACHE_PREFIX = "cinebook"
)

// TTL values
const (
	// Movie catalog entries change rarely
	TTL_MOVIE_DETAIL = 1 * time.Hour
	TTL_MOVIE_LIST   = 15 * time.Minute

	// Occupied-seat sets are invalidated on every reservation; the TTL only
	// bounds staleness if an invalidation is lost.
	TTL_SEAT_OCCUPANCY = 30 * time.Second
)

// Movie cache keys
const (
	CACHE_KEY_MOVIE_DETAIL = CACHE_PREFIX + ":movies:detail:uuid:" // + movie-id
	CACHE_KEY_MOVIE_LIST   = CACHE_PREFIX + ":movies:list"

	// Catalog writes invalidate every cached movie entry at once
	CACHE_PATTERN_MOVIES = CACHE_PREFIX + ":movies:*"
)

// Seat ledger cache keys
const (
	CACHE_KEY_SEAT_OCCUPANCY = CACHE_PREFIX + ":seats:occupied:movie:" // + movie-id
)

// MovieDetailKey builds the cache key for a single movie
func MovieDetailKey(movieID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_MOVIE_DETAIL, movieID)
}

// SeatOccupancyKey builds the cache key for a movie's occupied-seat set
func SeatOccupancyKey(movieID string) string {
	return fmt.Sprintf("%s%s", CACHE_KEY_SEAT_OCCUPANCY, movieID)
}
