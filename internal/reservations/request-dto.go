package reservations

// AssignSeatsRequest replaces a reservation's seat claims. Keys are seat
// ids, values are ticket type names.
type AssignSeatsRequest struct {
	Tickets map[string]string `json:"tickets" binding:"required"`
}

// FreeSeatingRequest requests automatically assigned seats for a
// free-seating show, by ticket type
type FreeSeatingRequest struct {
	Counts map[string]int `json:"counts" binding:"required"`
}
