package reservations

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the public reservation routes
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	shows := rg.Group("/shows/:showId")
	{
		shows.GET("/seat-map", ctrl.SeatMap)
		shows.POST("/reservation", ctrl.CreateOrResume)
		shows.PUT("/reservation/seats", ctrl.AssignSeats)
		shows.PUT("/reservation/free-seating", ctrl.AssignFreeSeating)
		shows.POST("/reservation/cancel", ctrl.Cancel)
	}

	rg.GET("/reservations/:code", ctrl.GetByCode)
}
