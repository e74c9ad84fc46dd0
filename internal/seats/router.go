package seats

import (
	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes configures seat ledger routes under the movie catalog
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/movies/:id/seats", controller.GetOccupancy)
}
