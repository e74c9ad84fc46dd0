package movies

import (
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupMovieRoutes configures all movie catalog routes
func SetupMovieRoutes(rg *gin.RouterGroup, controller *Controller) {
	catalog := rg.Group("/movies")
	{
		// Public catalog browsing
		catalog.GET("", controller.ListMovies)
		catalog.GET("/search", controller.SearchMovies)
		catalog.GET("/:id", controller.GetMovie)

		// Catalog management requires admin
		admin := catalog.Group("")
		admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
		{
			admin.POST("", controller.AddMovie)
		}
	}
}
