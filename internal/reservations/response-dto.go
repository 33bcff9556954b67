package reservations

import (
	"time"

	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"
)

// ReservationResponse is the public shape of a reservation
type ReservationResponse struct {
	ID              string            `json:"id"`
	ShowID          string            `json:"show_id"`
	State           State             `json:"state"`
	Tickets         map[string]string `json:"tickets"`
	TicketPrice     int               `json:"ticket_price"`
	Total           int               `json:"total"`
	SessionTimeout  time.Time         `json:"session_timeout"`
	Finalized       bool              `json:"finalized"`
	ReservationCode string            `json:"reservation_code,omitempty"`
}

// ToResponse converts a reservation to its response form. The code is
// only included once the reservation is finalized; before that it would
// leak a bearer token for an order that does not exist yet.
func ToResponse(r *Reservation) ReservationResponse {
	ticketMap := make(map[string]string, len(r.Tickets))
	for seatID, ticketType := range r.Tickets {
		ticketMap[seatID] = string(ticketType)
	}

	resp := ReservationResponse{
		ID:             r.ID.String(),
		ShowID:         r.ShowID.String(),
		State:          r.State(),
		Tickets:        ticketMap,
		TicketPrice:    r.TicketPrice,
		Total:          r.Total,
		SessionTimeout: r.SessionTimeout,
		Finalized:      r.Finalized,
	}
	if r.Finalized {
		resp.ReservationCode = r.ReservationCode
	}
	return resp
}

// ReservationDetail bundles a finalized reservation with the ticket rows
// covering its seats, for the order-confirmation page
type ReservationDetail struct {
	Reservation *Reservation
	Tickets     []tickets.Ticket
}

// TicketSummary is the per-ticket line on the confirmation page
type TicketSummary struct {
	TicketCode string `json:"ticket_code"`
	SeatName   string `json:"seat_name"`
	TicketType string `json:"ticket_type"`
	Price      int    `json:"price"`
}

// DetailResponse is the order-confirmation payload
type DetailResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	ShowDate    time.Time           `json:"show_date"`
	ShowSlug    string              `json:"show_slug"`
	Tickets     []TicketSummary     `json:"tickets"`
}

// ToDetailResponse converts a reservation detail to its response form
func ToDetailResponse(d *ReservationDetail) DetailResponse {
	summaries := make([]TicketSummary, 0, len(d.Tickets))
	for _, t := range d.Tickets {
		summary := TicketSummary{
			TicketCode: t.TicketCode,
			TicketType: string(t.TicketType),
			Price:      t.Price,
		}
		if t.Seat != nil {
			summary.SeatName = t.Seat.Name
		}
		summaries = append(summaries, summary)
	}

	resp := DetailResponse{
		Reservation: ToResponse(d.Reservation),
		Tickets:     summaries,
	}
	if d.Reservation.Show != nil {
		resp.ShowDate = d.Reservation.Show.Date
		resp.ShowSlug = d.Reservation.Show.Slug
	}
	return resp
}

// SeatMapSeat is one selectable seat in the seat-map payload
type SeatMapSeat struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GroupID string `json:"group_id"`
	XPos    int    `json:"x_pos"`
	YPos    int    `json:"y_pos"`
}

// SeatMapResponse is the payload the seat-selection step renders
type SeatMapResponse struct {
	ShowID         string                            `json:"show_id"`
	FreeSeating    bool                              `json:"free_seating"`
	Seats          []SeatMapSeat                     `json:"seats"`
	TakenSeatIDs   []string                          `json:"taken_seat_ids"`
	Pricings       map[string]venues.PriceTable      `json:"pricings"`
	AvailableSeats int                               `json:"available_seats"`
}
