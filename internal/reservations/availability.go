package reservations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stagedoor/internal/shows"
	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"

	"github.com/google/uuid"
)

// CollectTakenSeatIDs merges the seats committed to finalized tickets with
// the seats claimed by active reservations, optionally excluding one
// reservation (the caller's own). Pure function over the supplied rows.
func CollectTakenSeatIDs(ticketSeatIDs []uuid.UUID, active []Reservation, exclude uuid.UUID) map[string]bool {
	taken := make(map[string]bool, len(ticketSeatIDs))
	for _, id := range ticketSeatIDs {
		taken[id.String()] = true
	}
	for i := range active {
		if active[i].ID == exclude {
			continue
		}
		for seatID := range active[i].Tickets {
			taken[seatID] = true
		}
	}
	return taken
}

// AvailabilityService computes seat availability for a show. The result is
// advisory: between computing availability and committing a reservation,
// another request may claim the same seat. Correctness is enforced later
// by the submission re-check and ultimately by the ticket table's unique
// (show, seat) constraint.
type AvailabilityService struct {
	reservationRepo Repository
	ticketRepo      tickets.Repository
	venueRepo       venues.Repository
}

// NewAvailabilityService creates a new availability service instance
func NewAvailabilityService(reservationRepo Repository, ticketRepo tickets.Repository, venueRepo venues.Repository) *AvailabilityService {
	return &AvailabilityService{
		reservationRepo: reservationRepo,
		ticketRepo:      ticketRepo,
		venueRepo:       venueRepo,
	}
}

// TakenSeatIDs returns the seat ids currently held against the given show,
// excluding the given reservation's own claims (pass uuid.Nil to exclude
// nothing).
func (s *AvailabilityService) TakenSeatIDs(ctx context.Context, show *shows.Show, exclude uuid.UUID) (map[string]bool, error) {
	ticketSeatIDs, err := s.ticketRepo.GetTakenSeatIDs(ctx, show.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticketed seats: %w", err)
	}

	active, err := s.reservationRepo.GetActiveReservationsByShowID(ctx, show.ID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load active reservations: %w", err)
	}

	return CollectTakenSeatIDs(ticketSeatIDs, active, exclude), nil
}

// AvailableSeats returns the venue's seats not currently held against the
// show, in ascending seat-id order. The stable order matters: automatic
// seat assignment draws from the front of this list.
func (s *AvailabilityService) AvailableSeats(ctx context.Context, show *shows.Show, exclude uuid.UUID) ([]venues.Seat, error) {
	taken, err := s.TakenSeatIDs(ctx, show, exclude)
	if err != nil {
		return nil, err
	}

	seats, err := s.venueRepo.GetSeatsByVenueID(ctx, show.VenueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load venue seats: %w", err)
	}

	available := make([]venues.Seat, 0, len(seats))
	for _, seat := range seats {
		if !taken[seat.ID.String()] {
			available = append(available, seat)
		}
	}

	sort.Slice(available, func(i, j int) bool {
		return available[i].ID.String() < available[j].ID.String()
	})

	return available, nil
}
