package tickets

import (
	"errors"
	"net/http"
	"time"

	"stagedoor/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TicketResponse is the public shape of a finalized ticket, looked up by
// its code
type TicketResponse struct {
	TicketCode string    `json:"ticket_code"`
	TicketType string    `json:"ticket_type"`
	Price      int       `json:"price"`
	SeatName   string    `json:"seat_name,omitempty"`
	ShowSlug   string    `json:"show_slug,omitempty"`
	ShowDate   time.Time `json:"show_date,omitempty"`
}

// Controller handles HTTP requests for ticket lookups
type Controller struct {
	repo Repository
}

// NewController creates a new ticket controller instance
func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// GetByCode looks up a ticket by its code. The code is the bearer token;
// whoever holds it may view the ticket.
// GET /tickets/:ticketCode
func (ctrl *Controller) GetByCode(c *gin.Context) {
	ticket, err := ctrl.repo.GetTicketByCode(c.Request.Context(), c.Param("ticketCode"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "Ticket not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Could not load ticket", err)
		return
	}

	resp := TicketResponse{
		TicketCode: ticket.TicketCode,
		TicketType: string(ticket.TicketType),
		Price:      ticket.Price,
	}
	if ticket.Seat != nil {
		resp.SeatName = ticket.Seat.Name
	}
	if ticket.Show != nil {
		resp.ShowSlug = ticket.Show.Slug
		resp.ShowDate = ticket.Show.Date
	}

	response.Success(c, http.StatusOK, "Ticket", resp)
}
