package bookings

import (
	"errors"
	"net/http"

	"cinebook/internal/auth"
	"cinebook/internal/seats"
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

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, "Invalid request body", err.Error())
		return
	}

	session := auth.SessionFromContext(ctx)
	booking, err := c.service.CreateBooking(ctx.Request.Context(), session, req)
	if err != nil {
		c.respondBookingError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking confirmed", booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.BadRequest(ctx, "Invalid booking ID", nil)
		return
	}

	session := auth.SessionFromContext(ctx)
	booking, err := c.service.GetBooking(ctx.Request.Context(), session, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
			return
		}
		c.respondBookingError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetUserBookings handles GET /api/v1/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	session := auth.SessionFromContext(ctx)
	bookings, err := c.service.GetUserBookings(ctx.Request.Context(), session)
	if err != nil {
		c.respondBookingError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

func (c *Controller) respondBookingError(ctx *gin.Context, err error) {
	var conflict *seats.SeatConflictError
	var refund *RefundRequiredError

	switch {
	case errors.Is(err, ErrNotAuthenticated):
		response.Error(ctx, http.StatusUnauthorized, "Authentication required", nil)
	case errors.Is(err, ErrInvalidRequest):
		response.BadRequest(ctx, "Invalid booking request", err.Error())
	case errors.As(err, &conflict):
		response.Error(ctx, http.StatusConflict, "Seats already occupied", gin.H{
			"conflicting_seats": conflict.Seats,
		})
	case errors.Is(err, ErrPaymentDeclined):
		response.Error(ctx, http.StatusPaymentRequired, "Payment declined", err.Error())
	case errors.As(err, &refund):
		// The charge went through but the booking did not; surface the
		// transaction so support can trace the refund.
		response.Error(ctx, http.StatusBadGateway, "Booking failed after payment, refund initiated", gin.H{
			"refund_required": true,
			"transaction_id":  refund.Receipt.TransactionID,
		})
	default:
		response.Error(ctx, http.StatusInternalServerError, "Failed to process booking", nil)
	}
}
