package seats

import (
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

// GetOccupancy handles GET /api/v1/movies/:id/seats
func (c *Controller) GetOccupancy(ctx *gin.Context) {
	movieID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid movie ID", nil)
		return
	}

	occupancy, err := c.service.GetOccupancy(ctx.Request.Context(), movieID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to load seat occupancy", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Seat occupancy retrieved successfully", occupancy)
}
