package venues

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

// CreatePricingModel records a new effective-dated price table (admin only)
func (c *Controller) CreatePricingModel(ctx *gin.Context) {
	var req CreatePricingModelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request data", err)
		return
	}

	model, err := c.service.CreatePricingModel(ctx.Request.Context(), req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create pricing model", err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Pricing model created successfully", model)
}
