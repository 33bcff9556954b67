package venues

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes wires pricing administration endpoints into an
// already-authenticated admin route group.
func RegisterAdminRoutes(rg *gin.RouterGroup, controller *Controller) {
	pricing := rg.Group("/pricing-models")
	{
		pricing.POST("", controller.CreatePricingModel)
	}
}
