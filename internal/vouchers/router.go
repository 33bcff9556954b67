package vouchers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the public voucher routes
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	rg.POST("/shows/:showId/reservation/voucher", ctrl.Apply)
}

// RegisterAdminRoutes sets up the operator-only voucher routes
func RegisterAdminRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	rg.POST("/vouchers", ctrl.Create)
	rg.GET("/vouchers", ctrl.List)
}
