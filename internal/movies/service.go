package movies

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cinebook/internal/shared/constants"
	"cinebook/pkg/cache"

	"github.com/google/uuid"
)

var ErrEmptyTitle = errors.New("movie title must not be empty")

type Service interface {
	SetCacheService(cacheService cache.Service)

	AddMovie(ctx context.Context, req CreateMovieRequest) (*MovieResponse, error)
	GetMovieByID(ctx context.Context, id uuid.UUID) (*MovieResponse, error)
	SearchMovies(ctx context.Context, query string) ([]MovieResponse, error)
	ListMovies(ctx context.Context) ([]MovieResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) AddMovie(ctx context.Context, req CreateMovieRequest) (*MovieResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrEmptyTitle
	}

	movie := &Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		Duration:    req.Duration,
		Rating:      req.Rating,
		Description: req.Description,
		PosterPath:  req.PosterPath,
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.invalidateCatalogCache(ctx)

	resp := movie.ToResponse()
	return &resp, nil
}

func (s *service) GetMovieByID(ctx context.Context, id uuid.UUID) (*MovieResponse, error) {
	cacheKey := constants.MovieDetailKey(id.String())

	if s.cacheService != nil {
		var cached MovieResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := movie.ToResponse()
	s.setCache(ctx, cacheKey, resp, constants.TTL_MOVIE_DETAIL)
	return &resp, nil
}

func (s *service) SearchMovies(ctx context.Context, query string) ([]MovieResponse, error) {
	results, err := s.repo.SearchByTitle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("movie search failed: %w", err)
	}
	return toResponses(results), nil
}

func (s *service) ListMovies(ctx context.Context) ([]MovieResponse, error) {
	if s.cacheService != nil {
		var cached []MovieResponse
		if err := s.cacheService.Get(ctx, constants.CACHE_KEY_MOVIE_LIST, &cached); err == nil {
			return cached, nil
		}
	}

	results, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	responses := toResponses(results)
	s.setCache(ctx, constants.CACHE_KEY_MOVIE_LIST, responses, constants.TTL_MOVIE_LIST)
	return responses, nil
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	// Cache failures never fail the request
	_ = s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) invalidateCatalogCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.CACHE_PATTERN_MOVIES)
}

func toResponses(movies []Movie) []MovieResponse {
	responses := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		responses = append(responses, movies[i].ToResponse())
	}
	return responses
}
