package tickets

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the public ticket routes
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	rg.GET("/tickets/:ticketCode", ctrl.GetByCode)
}
