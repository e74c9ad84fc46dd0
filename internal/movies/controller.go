package movies

import (
	"errors"
	"net/http"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// AddMovie handles POST /api/v1/movies (admin only)
func (c *Controller) AddMovie(ctx *gin.Context) {
	var req CreateMovieRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	movie, err := c.service.AddMovie(ctx.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmptyTitle) {
			response.BadRequest(ctx, "Movie title must not be empty", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to add movie", nil)
		return
	}

	response.Success(ctx, http.StatusCreated, "Movie added successfully", movie)
}

// GetMovie handles GET /api/v1/movies/:id
func (c *Controller) GetMovie(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid movie ID", nil)
		return
	}

	movie, err := c.service.GetMovieByID(ctx.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			response.Error(ctx, http.StatusNotFound, "Movie not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get movie", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movie retrieved successfully", movie)
}

// SearchMovies handles GET /api/v1/movies/search?q=
func (c *Controller) SearchMovies(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		response.BadRequest(ctx, "Query parameter 'q' is required", nil)
		return
	}

	results, err := c.service.SearchMovies(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Movie search failed", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movies retrieved successfully", gin.H{
		"movies": results,
		"count":  len(results),
	})
}

// ListMovies handles GET /api/v1/movies
func (c *Controller) ListMovies(ctx *gin.Context) {
	results, err := c.service.ListMovies(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list movies", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Movies retrieved successfully", gin.H{
		"movies": results,
		"count":  len(results),
	})
}
