package shows

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires public show browsing endpoints
func RegisterRoutes(rg *gin.RouterGroup, controller *Controller) {
	group := rg.Group("/shows")
	{
		group.GET("", controller.ListUpcoming)
		group.GET("/:slug", controller.GetBySlug)
	}
}

// RegisterAdminRoutes wires the admin sales overview
func RegisterAdminRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/shows/coverage", controller.Coverage)
}
