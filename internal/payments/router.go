package payments

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the public checkout routes
func RegisterRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	rg.POST("/shows/:showId/reservation/payment-intent", ctrl.PaymentIntent)
	rg.POST("/shows/:showId/reservation/free-checkout", ctrl.FreeCheckout)
	rg.POST("/reservations/:code/email", ctrl.ResendEmail)
}

// RegisterWebhookRoutes sets up the payment provider callback. Webhooks
// sit outside the session and rate-limit middleware.
func RegisterWebhookRoutes(rg *gin.RouterGroup, ctrl *Controller) {
	rg.POST("/webhooks/stripe", ctrl.StripeWebhook)
}
