package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/shared/session"
	"stagedoor/internal/shared/utils/codes"
	"stagedoor/internal/shows"
	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"
	"stagedoor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountLookup exposes the applied discount of a reservation (to avoid
// circular dependency on the vouchers package)
type DiscountLookup interface {
	GetDiscountAmount(ctx context.Context, reservationID uuid.UUID) (int, bool, error)
}

// Service interface defines the contract for the reservation lifecycle
type Service interface {
	// Lifecycle
	CreateOrResume(ctx context.Context, sess *session.Session, show *shows.Show) (*Reservation, error)
	AssignSeats(ctx context.Context, reservation *Reservation, assignments map[string]string) error
	AssignAutomaticSeats(ctx context.Context, reservation *Reservation, counts map[string]int) error
	RecomputePrice(ctx context.Context, reservation *Reservation) error
	Cancel(ctx context.Context, sess *session.Session, showID uuid.UUID) error

	// Session expiry (mirrored timeout, evaluated lazily)
	SessionExpired(ctx context.Context, sess *session.Session) bool
	TouchSession(ctx context.Context, sess *session.Session) error

	// Lookups
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*ReservationDetail, error)

	// Seat map payload for the selection step
	SeatMap(ctx context.Context, show *shows.Show, reservation *Reservation) (*SeatMapResponse, error)
}

type service struct {
	repo           Repository
	availability   *AvailabilityService
	venueService   venues.Service
	ticketRepo     tickets.Repository
	discounts      DiscountLookup
	sessionTimeout time.Duration
	logger         *logger.Logger
}

// NewService creates a new reservation service instance
func NewService(
	repo Repository,
	availability *AvailabilityService,
	venueService venues.Service,
	ticketRepo tickets.Repository,
	discounts DiscountLookup,
	sessionTimeout time.Duration,
) Service {
	return &service{
		repo:           repo,
		availability:   availability,
		venueService:   venueService,
		ticketRepo:     ticketRepo,
		discounts:      discounts,
		sessionTimeout: sessionTimeout,
		logger:         logger.GetDefault(),
	}
}

// CreateOrResume returns the browser's reservation for a show, extending
// its timeout, or opens a fresh one. A finalized reservation is never
// resumed; completing an order must not leak into the next one.
func (s *service) CreateOrResume(ctx context.Context, sess *session.Session, show *shows.Show) (*Reservation, error) {
	timeout := time.Now().Add(s.sessionTimeout)
	sessionKey := session.ShowKey(show.ID.String())

	if idStr, err := sess.Get(ctx, sessionKey); err == nil {
		if id, parseErr := uuid.Parse(idStr); parseErr == nil {
			reservation, getErr := s.repo.GetReservationByID(ctx, id)
			if getErr == nil && !reservation.Finalized {
				reservation.SessionTimeout = timeout
				if err := s.save(ctx, reservation); err != nil {
					return nil, err
				}
				if err := s.mirrorTimeout(ctx, sess, timeout); err != nil {
					return nil, err
				}
				return reservation, nil
			}
			if getErr != nil && !errors.Is(getErr, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to load reservation: %w", getErr)
			}
		}
	}

	code, err := codes.NewReservationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reservation code: %w", err)
	}

	reservation := &Reservation{
		ShowID:          show.ID,
		Tickets:         SeatAssignment{},
		SessionTimeout:  timeout,
		ReservationCode: code,
		Show:            show,
	}

	if err := s.repo.CreateReservation(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := sess.Set(ctx, sessionKey, reservation.ID.String()); err != nil {
		return nil, err
	}
	if err := s.mirrorTimeout(ctx, sess, timeout); err != nil {
		return nil, err
	}

	s.logger.LogReservationCreated(ctx, reservation.ID.String(), show.ID.String())
	return reservation, nil
}

// AssignSeats replaces the reservation's seat claims wholesale with the
// submitted seat-id -> ticket-type map. The submission is re-checked
// against the active-taken set and rejected entirely on any overlap.
func (s *service) AssignSeats(ctx context.Context, reservation *Reservation, assignments map[string]string) error {
	if reservation.Finalized {
		return ErrAlreadyFinalized
	}

	show, err := s.showOf(ctx, reservation)
	if err != nil {
		return err
	}
	if show.FreeSeating {
		return ErrNotSeatMapSeating
	}

	assignment := make(SeatAssignment, len(assignments))
	for seatID, typeStr := range assignments {
		if typeStr == "" {
			return ErrMissingTicketType
		}
		ticketType := venues.TicketType(typeStr)
		if !ticketType.IsValid() {
			return fmt.Errorf("%w: type=%s", venues.ErrUnknownTicketType, typeStr)
		}
		if _, err := uuid.Parse(seatID); err != nil {
			return fmt.Errorf("invalid seat ID: %s", seatID)
		}
		assignment[seatID] = ticketType
	}

	taken, err := s.availability.TakenSeatIDs(ctx, show, reservation.ID)
	if err != nil {
		return err
	}

	var conflicts []string
	for seatID := range assignment {
		if taken[seatID] {
			conflicts = append(conflicts, seatID)
		}
	}
	if len(conflicts) > 0 {
		s.logger.LogSeatConflict(ctx, show.ID.String(), conflicts)
		return &SeatConflictError{SeatIDs: conflicts}
	}

	reservation.Tickets = assignment
	reservation.SessionTimeout = time.Now().Add(s.sessionTimeout)
	return s.save(ctx, reservation)
}

// AssignAutomaticSeats allocates seats for a free-seating show by drawing
// the first N available seats in ascending seat-id order, ticket type by
// ticket type in the documented type order. All-or-nothing: if the total
// requested exceeds availability, nothing is allocated.
func (s *service) AssignAutomaticSeats(ctx context.Context, reservation *Reservation, counts map[string]int) error {
	if reservation.Finalized {
		return ErrAlreadyFinalized
	}

	show, err := s.showOf(ctx, reservation)
	if err != nil {
		return err
	}
	if !show.FreeSeating {
		return ErrNotFreeSeating
	}

	requested := 0
	byType := make(map[venues.TicketType]int, len(counts))
	for typeStr, count := range counts {
		if count < 0 {
			return fmt.Errorf("seat count must not be negative for type %s", typeStr)
		}
		ticketType := venues.TicketType(typeStr)
		if !ticketType.IsValid() {
			return fmt.Errorf("%w: type=%s", venues.ErrUnknownTicketType, typeStr)
		}
		byType[ticketType] = count
		requested += count
	}

	available, err := s.availability.AvailableSeats(ctx, show, reservation.ID)
	if err != nil {
		return err
	}

	if requested > len(available) {
		return &InsufficientCapacityError{Requested: requested, Available: len(available)}
	}

	assignment := make(SeatAssignment, requested)
	next := 0
	for _, ticketType := range venues.AllTicketTypes() {
		for i := 0; i < byType[ticketType]; i++ {
			assignment[available[next].ID.String()] = ticketType
			next++
		}
	}

	reservation.Tickets = assignment
	reservation.SessionTimeout = time.Now().Add(s.sessionTimeout)
	return s.save(ctx, reservation)
}

// RecomputePrice recalculates ticket_price from the pricing models active
// right now, and total from any applied discount. Recomputed on every
// save so a price change between selection and payment is always picked
// up.
func (s *service) RecomputePrice(ctx context.Context, reservation *Reservation) error {
	now := time.Now()

	seatIDs := make([]uuid.UUID, 0, len(reservation.Tickets))
	for seatID := range reservation.Tickets {
		id, err := uuid.Parse(seatID)
		if err != nil {
			return fmt.Errorf("invalid seat ID in reservation: %s", seatID)
		}
		seatIDs = append(seatIDs, id)
	}

	ticketPrice := 0
	if len(seatIDs) > 0 {
		seats, err := s.venueService.GetSeats(ctx, seatIDs)
		if err != nil {
			return err
		}
		if len(seats) != len(seatIDs) {
			return fmt.Errorf("reservation references unknown seats: have %d of %d", len(seats), len(seatIDs))
		}

		for _, seat := range seats {
			ticketType := reservation.Tickets[seat.ID.String()]
			price, err := s.venueService.PriceForType(ctx, seat.GroupID, ticketType, now)
			if err != nil {
				return err
			}
			ticketPrice += price
		}
	}

	reservation.TicketPrice = ticketPrice
	reservation.Total = ticketPrice

	amount, applied, err := s.discounts.GetDiscountAmount(ctx, reservation.ID)
	if err != nil {
		return fmt.Errorf("failed to look up discount: %w", err)
	}
	if applied {
		// Re-selecting cheaper seats can undercut an already applied
		// voucher; the effective discount never exceeds what the
		// tickets cost, so the total never goes negative.
		if amount > ticketPrice {
			amount = ticketPrice
		}
		reservation.Total = ticketPrice - amount
	}

	return nil
}

// Cancel deletes the browser's reservation for a show, freeing its seats
// and, through the discount cascade, freeing any consumed voucher for
// reuse. Explicit only; expiry never deletes rows.
func (s *service) Cancel(ctx context.Context, sess *session.Session, showID uuid.UUID) error {
	sessionKey := session.ShowKey(showID.String())

	idStr, err := sess.Get(ctx, sessionKey)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ErrReservationNotFound
		}
		return err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid reservation id in session: %w", err)
	}

	if err := s.repo.DeleteReservation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if err := sess.Delete(ctx, sessionKey, session.KeyReservationTimeout, session.KeyPaymentIntent); err != nil {
		return err
	}

	s.logger.LogReservationCancelled(ctx, id.String(), showID.String())
	return nil
}

// SessionExpired checks the timeout mirrored into the browser session.
// A session without a recorded timeout has nothing to expire.
func (s *service) SessionExpired(ctx context.Context, sess *session.Session) bool {
	val, err := sess.Get(ctx, session.KeyReservationTimeout)
	if err != nil {
		return false
	}
	timeout, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return false
	}
	return timeout.Before(time.Now())
}

// TouchSession refreshes the mirrored session timeout
func (s *service) TouchSession(ctx context.Context, sess *session.Session) error {
	return s.mirrorTimeout(ctx, sess, time.Now().Add(s.sessionTimeout))
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	reservation, err := s.repo.GetReservationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return reservation, nil
}

// GetByCode resolves a reservation by its public code, together with the
// finalized tickets covering its seats. The code acts as a bearer token;
// no further authentication is required.
func (s *service) GetByCode(ctx context.Context, code string) (*ReservationDetail, error) {
	reservation, err := s.repo.GetReservationByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	seatIDs := make([]uuid.UUID, 0, len(reservation.Tickets))
	for seatID := range reservation.Tickets {
		if id, parseErr := uuid.Parse(seatID); parseErr == nil {
			seatIDs = append(seatIDs, id)
		}
	}

	var ticketRows []tickets.Ticket
	if len(seatIDs) > 0 {
		ticketRows, err = s.ticketRepo.GetTicketsByShowAndSeats(ctx, reservation.ShowID, seatIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load tickets: %w", err)
		}
	}

	return &ReservationDetail{
		Reservation: reservation,
		Tickets:     ticketRows,
	}, nil
}

// SeatMap assembles the payload the seat-selection step renders: every
// seat in the venue, the active price table per seating group, and the
// seats currently held by others.
func (s *service) SeatMap(ctx context.Context, show *shows.Show, reservation *Reservation) (*SeatMapResponse, error) {
	exclude := uuid.Nil
	if reservation != nil {
		exclude = reservation.ID
	}

	taken, err := s.availability.TakenSeatIDs(ctx, show, exclude)
	if err != nil {
		return nil, err
	}

	seats, err := s.venueService.SeatsForVenue(ctx, show.VenueID)
	if err != nil {
		return nil, err
	}

	tables, err := s.venueService.PriceTablesForVenue(ctx, show.VenueID, time.Now())
	if err != nil {
		return nil, err
	}

	takenIDs := make([]string, 0, len(taken))
	for seatID := range taken {
		takenIDs = append(takenIDs, seatID)
	}

	seatInfos := make([]SeatMapSeat, 0, len(seats))
	availableCount := 0
	for _, seat := range seats {
		if !taken[seat.ID.String()] {
			availableCount++
		}
		seatInfos = append(seatInfos, SeatMapSeat{
			ID:      seat.ID.String(),
			Name:    seat.Name,
			GroupID: seat.GroupID.String(),
			XPos:    seat.XPos,
			YPos:    seat.YPos,
		})
	}

	pricings := make(map[string]venues.PriceTable, len(tables))
	for groupID, table := range tables {
		pricings[groupID.String()] = table
	}

	return &SeatMapResponse{
		ShowID:         show.ID.String(),
		FreeSeating:    show.FreeSeating,
		Seats:          seatInfos,
		TakenSeatIDs:   takenIDs,
		Pricings:       pricings,
		AvailableSeats: availableCount,
	}, nil
}

// save persists the reservation after recomputing its price fields, the
// single write path for all mutations.
func (s *service) save(ctx context.Context, reservation *Reservation) error {
	if err := s.RecomputePrice(ctx, reservation); err != nil {
		return err
	}
	if err := s.repo.SaveReservation(ctx, reservation); err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}
	return nil
}

func (s *service) mirrorTimeout(ctx context.Context, sess *session.Session, timeout time.Time) error {
	return sess.Set(ctx, session.KeyReservationTimeout, timeout.Format(time.RFC3339))
}

func (s *service) showOf(ctx context.Context, reservation *Reservation) (*shows.Show, error) {
	if reservation.Show != nil {
		return reservation.Show, nil
	}
	loaded, err := s.repo.GetReservationByID(ctx, reservation.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation show: %w", err)
	}
	reservation.Show = loaded.Show
	if reservation.Show == nil {
		return nil, fmt.Errorf("reservation %s has no show", reservation.ID)
	}
	return reservation.Show, nil
}
