package vouchers

import (
	"errors"
	"net/http"

	"stagedoor/internal/reservations"
	"stagedoor/internal/shared/middleware"
	"stagedoor/internal/shared/session"
	"stagedoor/internal/shared/utils/response"
	"stagedoor/internal/shows"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for vouchers and discounts
type Controller struct {
	service            Service
	showService        shows.Service
	reservationService reservations.Service
	validator          *validator.Validate
}

// NewController creates a new voucher controller instance
func NewController(service Service, showService shows.Service, reservationService reservations.Service) *Controller {
	return &Controller{
		service:            service,
		showService:        showService,
		reservationService: reservationService,
		validator:          validator.New(),
	}
}

// Apply redeems a voucher code against the browser's reservation
// POST /shows/:showId/reservation/voucher
func (ctrl *Controller) Apply(c *gin.Context) {
	var req ApplyVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	showID, err := uuid.Parse(c.Param("showId"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid show ID", err)
		return
	}

	show, err := ctrl.showService.GetShow(c.Request.Context(), showID)
	if err != nil {
		response.NotFound(c, "Show not found")
		return
	}

	sess := session.FromContext(c)
	if sess == nil {
		response.Error(c, http.StatusInternalServerError, "Session unavailable", nil)
		return
	}

	idStr, err := sess.Get(c.Request.Context(), session.ShowKey(show.ID.String()))
	if err != nil {
		response.NotFound(c, "Reservation not found")
		return
	}
	reservationID, err := uuid.Parse(idStr)
	if err != nil {
		response.NotFound(c, "Reservation not found")
		return
	}

	reservation, err := ctrl.reservationService.GetByID(c.Request.Context(), reservationID)
	if err != nil {
		response.NotFound(c, "Reservation not found")
		return
	}

	discount, err := ctrl.service.ApplyVoucher(c.Request.Context(), sess, reservation, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Voucher applied", DiscountResponse{
		Amount:      discount.Amount,
		TicketPrice: reservation.TicketPrice,
		Total:       reservation.Total,
	})
}

// Create issues a new voucher
// POST /admin/vouchers
func (ctrl *Controller) Create(c *gin.Context) {
	var req CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	voucher, err := ctrl.service.CreateVoucher(c.Request.Context(), req.Amount, req.Note, middleware.Operator(c), req.Expiry)
	if err != nil {
		response.Error(c, http.StatusUnprocessableEntity, "Could not create voucher", err)
		return
	}

	response.Success(c, http.StatusCreated, "Voucher created", ToResponse(voucher))
}

// List returns issued vouchers, optionally only active ones
// GET /admin/vouchers?active=true
func (ctrl *Controller) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	vouchers, err := ctrl.service.ListVouchers(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Could not list vouchers", err)
		return
	}

	result := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		result = append(result, ToResponse(&vouchers[i]))
	}

	response.Success(c, http.StatusOK, "Vouchers", result)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVoucherNotFound):
		response.NotFound(c, "Voucher not found")
	case errors.Is(err, ErrVoucherAlreadyUsed):
		response.Error(c, http.StatusConflict, "Voucher has already been used", err)
	case errors.Is(err, ErrAlreadyDiscounted):
		response.Error(c, http.StatusConflict, "Reservation already has a discount", err)
	case errors.Is(err, reservations.ErrAlreadyFinalized):
		response.Error(c, http.StatusConflict, "Reservation is already finalized", err)
	default:
		response.Error(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}
