package bookings

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking routes; every route requires a
// session.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	booking := rg.Group("/bookings")
	booking.Use(middleware.JWTAuth())
	{
		booking.POST("", controller.CreateBooking)
		booking.GET("", controller.GetUserBookings)
		booking.GET("/:id", controller.GetBooking)
	}
}
