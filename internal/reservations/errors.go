package reservations

import (
	"errors"
	"fmt"
	"strings"
)

// User-correctable failures. Controllers map these onto 4xx responses;
// none of them leaves any data mutated.
var (
	ErrMissingTicketType   = errors.New("every selected seat needs a ticket type")
	ErrNotFreeSeating      = errors.New("show does not use free seating")
	ErrNotSeatMapSeating   = errors.New("show uses free seating")
	ErrAlreadyFinalized    = errors.New("reservation is already finalized")
	ErrSessionExpired      = errors.New("reservation session has expired")
	ErrReservationNotFound = errors.New("reservation not found")
)

// SeatConflictError reports which requested seats are already claimed by
// another active reservation or a finalized ticket. The whole submission
// is rejected; no seats are partially accepted.
type SeatConflictError struct {
	SeatIDs []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.SeatIDs, ", "))
}

// InsufficientCapacityError reports a free-seating request exceeding the
// number of available seats. Nothing is allocated on failure.
type InsufficientCapacityError struct {
	Requested int
	Available int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("requested %d seats but only %d are available", e.Requested, e.Available)
}
