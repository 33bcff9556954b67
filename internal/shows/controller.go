package shows

import (
	"net/http"

	"stagedoor/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListUpcoming returns visible upcoming shows for the ticket landing page
func (c *Controller) ListUpcoming(ctx *gin.Context) {
	result, err := c.service.Upcoming(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list shows", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Shows retrieved successfully", result)
}

// GetBySlug returns one show identified by its public slug
func (c *Controller) GetBySlug(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if slug == "" {
		response.Error(ctx, http.StatusBadRequest, "Show slug is required", nil)
		return
	}

	show, err := c.service.GetShowBySlug(ctx.Request.Context(), slug)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err.Error() == "show not found" {
			statusCode = http.StatusNotFound
		}
		response.Error(ctx, statusCode, "Failed to get show", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Show retrieved successfully", show)
}

// Coverage returns the admin sales overview (tickets sold vs. capacity)
func (c *Controller) Coverage(ctx *gin.Context) {
	result, err := c.service.UpcomingWithCoverage(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to compute coverage", err)
		return
	}

	response.Success(ctx, http.StatusOK, "Coverage retrieved successfully", result)
}
