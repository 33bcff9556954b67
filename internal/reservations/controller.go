package reservations

import (
	"errors"
	"net/http"

	"stagedoor/internal/shared/session"
	"stagedoor/internal/shared/utils/response"
	"stagedoor/internal/shows"
	"stagedoor/internal/venues"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for the reservation lifecycle
type Controller struct {
	service     Service
	showService shows.Service
}

// NewController creates a new reservation controller instance
func NewController(service Service, showService shows.Service) *Controller {
	return &Controller{
		service:     service,
		showService: showService,
	}
}

// CreateOrResume opens a reservation for a show, or resumes the browser's
// existing unfinalized one
// POST /shows/:showId/reservation
func (ctrl *Controller) CreateOrResume(c *gin.Context) {
	show, sess, ok := ctrl.showAndSession(c)
	if !ok {
		return
	}

	reservation, err := ctrl.service.CreateOrResume(c.Request.Context(), sess, show)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reservation ready", ToResponse(reservation))
}

// SeatMap returns the seat-selection payload for a show
// GET /shows/:showId/seat-map
func (ctrl *Controller) SeatMap(c *gin.Context) {
	show, sess, ok := ctrl.showAndSession(c)
	if !ok {
		return
	}

	reservation, _ := ctrl.ownReservation(c, sess, show)

	seatMap, err := ctrl.service.SeatMap(c.Request.Context(), show, reservation)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Seat map", seatMap)
}

// AssignSeats replaces the reservation's seat selection
// PUT /shows/:showId/reservation/seats
func (ctrl *Controller) AssignSeats(c *gin.Context) {
	show, sess, ok := ctrl.showAndSession(c)
	if !ok {
		return
	}

	var req AssignSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reservation, ok := ctrl.activeReservation(c, sess, show)
	if !ok {
		return
	}

	if err := ctrl.service.AssignSeats(c.Request.Context(), reservation, req.Tickets); err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.service.TouchSession(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Seats assigned", ToResponse(reservation))
}

// AssignFreeSeating allocates seats automatically for a free-seating show
// PUT /shows/:showId/reservation/free-seating
func (ctrl *Controller) AssignFreeSeating(c *gin.Context) {
	show, sess, ok := ctrl.showAndSession(c)
	if !ok {
		return
	}

	var req FreeSeatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reservation, ok := ctrl.activeReservation(c, sess, show)
	if !ok {
		return
	}

	if err := ctrl.service.AssignAutomaticSeats(c.Request.Context(), reservation, req.Counts); err != nil {
		respondError(c, err)
		return
	}
	if err := ctrl.service.TouchSession(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Seats assigned", ToResponse(reservation))
}

// Cancel abandons the browser's reservation for a show, freeing its seats
// POST /shows/:showId/reservation/cancel
func (ctrl *Controller) Cancel(c *gin.Context) {
	show, sess, ok := ctrl.showAndSession(c)
	if !ok {
		return
	}

	if err := ctrl.service.Cancel(c.Request.Context(), sess, show.ID); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reservation cancelled", nil)
}

// GetByCode looks up a finalized order by its reservation code
// GET /reservations/:code
func (ctrl *Controller) GetByCode(c *gin.Context) {
	detail, err := ctrl.service.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reservation detail", ToDetailResponse(detail))
}

func (ctrl *Controller) showAndSession(c *gin.Context) (*shows.Show, *session.Session, bool) {
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

	return show, sess, true
}

// activeReservation resolves the session's reservation for a show and
// enforces the mirrored timeout. An expired session gets 410 so the web
// client restarts from seat selection.
func (ctrl *Controller) activeReservation(c *gin.Context, sess *session.Session, show *shows.Show) (*Reservation, bool) {
	if ctrl.service.SessionExpired(c.Request.Context(), sess) {
		response.Error(c, http.StatusGone, "Reservation session has expired", ErrSessionExpired)
		return nil, false
	}

	reservation, err := ctrl.ownReservation(c, sess, show)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return reservation, true
}

func (ctrl *Controller) ownReservation(c *gin.Context, sess *session.Session, show *shows.Show) (*Reservation, error) {
	idStr, err := sess.Get(c.Request.Context(), session.ShowKey(show.ID.String()))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrReservationNotFound
	}

	reservation, err := ctrl.service.GetByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	reservation.Show = show
	return reservation, nil
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var conflict *SeatConflictError
	var capacity *InsufficientCapacityError

	switch {
	case errors.As(err, &conflict):
		response.RespondJSON(c, "error", http.StatusConflict, "Some seats are no longer available", gin.H{"seat_ids": conflict.SeatIDs}, err.Error())
	case errors.As(err, &capacity):
		response.RespondJSON(c, "error", http.StatusConflict, "Not enough seats available", gin.H{"requested": capacity.Requested, "available": capacity.Available}, err.Error())
	case errors.Is(err, ErrMissingTicketType), errors.Is(err, venues.ErrUnknownTicketType):
		response.Error(c, http.StatusUnprocessableEntity, "Invalid seat selection", err)
	case errors.Is(err, ErrNotFreeSeating), errors.Is(err, ErrNotSeatMapSeating):
		response.Error(c, http.StatusUnprocessableEntity, "Wrong seating mode for this show", err)
	case errors.Is(err, ErrAlreadyFinalized):
		response.Error(c, http.StatusConflict, "Reservation is already finalized", err)
	case errors.Is(err, ErrSessionExpired):
		response.Error(c, http.StatusGone, "Reservation session has expired", err)
	case errors.Is(err, ErrReservationNotFound):
		response.NotFound(c, "Reservation not found")
	case errors.Is(err, venues.ErrNoPricingModel):
		response.Error(c, http.StatusInternalServerError, "Pricing is not configured for this show", err)
	default:
		response.Error(c, http.StatusInternalServerError, "Something went wrong", err)
	}
}
