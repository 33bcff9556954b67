package payments

import (
	"errors"
	"io"
	"net/http"

	"stagedoor/internal/reservations"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/session"
	"stagedoor/internal/shared/utils/response"
	"stagedoor/internal/shows"
	"stagedoor/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for checkout and the payment webhook
type Controller struct {
	service            Service
	gateway            Gateway
	showService        shows.Service
	reservationService reservations.Service
	cfg                config.StripeConfig
	logger             *logger.Logger
}

// NewController creates a new payment controller instance
func NewController(
	service Service,
	gateway Gateway,
	showService shows.Service,
	reservationService reservations.Service,
	cfg config.StripeConfig,
) *Controller {
	return &Controller{
		service:            service,
		gateway:            gateway,
		showService:        showService,
		reservationService: reservationService,
		cfg:                cfg,
		logger:             logger.GetDefault(),
	}
}

// PaymentIntent returns (creating or refreshing as needed) the payment
// intent for the browser's reservation
// POST /shows/:showId/reservation/payment-intent
func (ctrl *Controller) PaymentIntent(c *gin.Context) {
	reservation, sess, ok := ctrl.sessionReservation(c)
	if !ok {
		return
	}

	intent, err := ctrl.service.GetOrRefreshPaymentIntent(c.Request.Context(), sess, reservation)
	if err != nil {
		if errors.Is(err, ErrNothingDue) {
			response.Error(c, http.StatusUnprocessableEntity, "Nothing to pay; confirm the free checkout instead", err)
			return
		}
		response.Error(c, http.StatusBadGateway, "Could not prepare payment", err)
		return
	}

	response.Success(c, http.StatusOK, "Payment intent", gin.H{
		"id":            intent.ID,
		"client_secret": intent.ClientSecret,
		"amount":        intent.Amount,
		"status":        intent.Status,
	})
}

// FreeCheckout finalizes a fully discounted reservation
// POST /shows/:showId/reservation/free-checkout
func (ctrl *Controller) FreeCheckout(c *gin.Context) {
	var req FreeCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reservation, _, ok := ctrl.sessionReservation(c)
	if !ok {
		return
	}

	billing := BillingDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := ctrl.service.ConfirmFreeCheckout(c.Request.Context(), reservation, billing, req.Reference); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reservation finalized", reservations.ToResponse(reservation))
}

// StripeWebhook receives payment events from Stripe
// POST /webhooks/stripe
func (ctrl *Controller) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Could not read payload", err)
		return
	}

	event, err := ParseWebhookEvent(payload, c.GetHeader("Stripe-Signature"), ctrl.cfg.WebhookSecret)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", err)
		return
	}

	if string(event.Type) != EventPaymentIntentSucceeded {
		response.Success(c, http.StatusOK, "Event ignored", nil)
		return
	}

	pi, err := PaymentIntentFromEvent(event)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid payload", err)
		return
	}

	reservationID, err := uuid.Parse(pi.Metadata["reservation_id"])
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Missing reservation metadata", err)
		return
	}

	reservation, err := ctrl.reservationService.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		respondError(c, err)
		return
	}

	billing, err := BillingDetailsForIntent(c.Request.Context(), ctrl.gateway, pi)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Could not resolve billing details", err)
		return
	}

	if err := ctrl.service.HandleSuccessfulPayment(c.Request.Context(), reservation, billing, ""); err != nil {
		respondError(c, err)
		return
	}

	ctrl.logger.LogPaymentIntent(c.Request.Context(), "succeeded", pi.ID, reservation.ID.String())
	response.Success(c, http.StatusOK, "Payment processed", nil)
}

// ResendEmail re-sends the ticket email for a finalized reservation
// POST /reservations/:code/email
func (ctrl *Controller) ResendEmail(c *gin.Context) {
	var req ResendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid email address", err)
		return
	}

	if err := ctrl.service.ResendTicketEmail(c.Request.Context(), c.Param("code"), req.Email); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Email sent", nil)
}

// sessionReservation resolves the browser's reservation for the show in
// the path, enforcing the mirrored session timeout.
func (ctrl *Controller) sessionReservation(c *gin.Context) (*reservations.Reservation, *session.Session, bool) {
	showID, err := uuid.Parse(c.Param("showId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid show ID", err)
		return nil, nil, false
	}

	show, err := ctrl.showService.GetShow(c.Request.Context(), showID)
	if err != nil {
		response.NotFound(c, "Show not found")
		return nil, nil, false
	}

	sess := session.FromContext(c)
	if sess == nil {
		response.Error(c, http.StatusInternalServerError, "Session unavailable", nil)
		return nil, nil, false
	}

	if ctrl.reservationService.SessionExpired(c.Request.Context(), sess) {
		response.Error(c, http.StatusGone, "Reservation session has expired", reservations.ErrSessionExpired)
		return nil, nil, false
	}

	idStr, err := sess.Get(c.Request.Context(), session.ShowKey(show.ID.String()))
	if err != nil {
		response.NotFound(c, "Reservation not found")
		return nil, nil, false
	}
	reservationID, err := uuid.Parse(idStr)
	if err != nil {
		response.NotFound(c, "Reservation not found")
		return nil, nil, false
	}

	reservation, err := ctrl.reservationService.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		response.NotFound(c, "Reservation not found")
		return nil, nil, false
	}
	reservation.Show = show

	return reservation, sess, true
}

func respondError(c *gin.Context, err error) {
	var conflict *reservations.SeatConflictError

	switch {
	case errors.As(err, &conflict):
		response.RespondJSON(c, "error", http.StatusConflict, "Some seats were taken before payment completed", gin.H{"seat_ids": conflict.SeatIDs}, err.Error())
	case errors.Is(err, ErrPaymentRequired):
		response.Error(c, http.StatusUnprocessableEntity, "Reservation requires payment", err)
	case errors.Is(err, ErrNoSeatsSelected):
		response.Error(c, http.StatusUnprocessableEntity, "Reservation has no seats", err)
	case errors.Is(err, reservations.ErrReservationNotFound):
		response.NotFound(c, "Reservation not found")
	default:
		response.Error(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}
