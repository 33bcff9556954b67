package reservations

import (
	"context"
	"sort"
	"testing"
	"time"

	"stagedoor/internal/shared/session"
	"stagedoor/internal/shows"
	"stagedoor/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	repo       *MockRepository
	ticketRepo *MockTicketRepository
	venueRepo  *MockVenueRepository
	venueSvc   *MockVenueService
	discounts  *MockDiscountLookup
	store      *memStore
	service    Service
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:       &MockRepository{},
		ticketRepo: &MockTicketRepository{},
		venueRepo:  &MockVenueRepository{},
		venueSvc:   &MockVenueService{},
		discounts:  &MockDiscountLookup{},
		store:      newMemStore(),
	}
	availability := NewAvailabilityService(f.repo, f.ticketRepo, f.venueRepo)
	f.service = NewService(f.repo, availability, f.venueSvc, f.ticketRepo, f.discounts, 30*time.Minute)
	return f
}

func (f *serviceFixture) session() *session.Session {
	return session.New(f.store, "test-session")
}

func seatMapShow() *shows.Show {
	return &shows.Show{ID: uuid.New(), VenueID: uuid.New(), FreeSeating: false}
}

func freeSeatingShow() *shows.Show {
	return &shows.Show{ID: uuid.New(), VenueID: uuid.New(), FreeSeating: true}
}

func TestCreateOrResume(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a fresh reservation and records it in the session", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		sess := f.session()

		var created *Reservation
		f.repo.CreateReservationFunc = func(ctx context.Context, r *Reservation) error {
			r.ID = uuid.New()
			created = r
			return nil
		}

		reservation, err := f.service.CreateOrResume(ctx, sess, show)
		require.NoError(t, err)
		require.NotNil(t, created)

		assert.Equal(t, show.ID, reservation.ShowID)
		assert.Len(t, reservation.ReservationCode, 12)
		assert.False(t, reservation.Finalized)
		assert.True(t, reservation.SessionTimeout.After(time.Now()))

		stored, err := sess.Get(ctx, session.ShowKey(show.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, reservation.ID.String(), stored)

		mirrored, err := sess.Get(ctx, session.KeyReservationTimeout)
		require.NoError(t, err)
		timeout, err := time.Parse(time.RFC3339, mirrored)
		require.NoError(t, err)
		assert.True(t, timeout.After(time.Now()))
	})

	t.Run("resumes the session's reservation and extends its timeout", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		sess := f.session()

		existing := &Reservation{
			ID:              uuid.New(),
			ShowID:          show.ID,
			Tickets:         SeatAssignment{},
			SessionTimeout:  time.Now().Add(time.Minute),
			ReservationCode: "RESUMEDCODE1",
			Show:            show,
		}
		require.NoError(t, sess.Set(ctx, session.ShowKey(show.ID.String()), existing.ID.String()))

		f.repo.GetReservationByIDFunc = func(ctx context.Context, id uuid.UUID) (*Reservation, error) {
			require.Equal(t, existing.ID, id)
			return existing, nil
		}
		saved := false
		f.repo.SaveReservationFunc = func(ctx context.Context, r *Reservation) error {
			saved = true
			return nil
		}

		reservation, err := f.service.CreateOrResume(ctx, sess, show)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, reservation.ID)
		assert.True(t, saved)
		assert.True(t, reservation.SessionTimeout.After(time.Now().Add(25*time.Minute)))
	})

	t.Run("never resumes a finalized reservation", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		sess := f.session()

		finalized := &Reservation{
			ID:        uuid.New(),
			ShowID:    show.ID,
			Finalized: true,
			Show:      show,
		}
		require.NoError(t, sess.Set(ctx, session.ShowKey(show.ID.String()), finalized.ID.String()))

		f.repo.GetReservationByIDFunc = func(ctx context.Context, id uuid.UUID) (*Reservation, error) {
			return finalized, nil
		}
		f.repo.CreateReservationFunc = func(ctx context.Context, r *Reservation) error {
			r.ID = uuid.New()
			return nil
		}

		reservation, err := f.service.CreateOrResume(ctx, sess, show)
		require.NoError(t, err)
		assert.NotEqual(t, finalized.ID, reservation.ID)
		assert.False(t, reservation.Finalized)

		stored, err := sess.Get(ctx, session.ShowKey(show.ID.String()))
		require.NoError(t, err)
		assert.Equal(t, reservation.ID.String(), stored)
	})
}

func TestAssignSeats(t *testing.T) {
	ctx := context.Background()
	seatA := uuid.New()
	seatB := uuid.New()

	t.Run("replaces the claim wholesale and reprices", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		saved := false
		f.repo.SaveReservationFunc = func(ctx context.Context, r *Reservation) error {
			saved = true
			return nil
		}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{
			seatA.String(): "normal",
			seatB.String(): "student",
		})
		require.NoError(t, err)
		assert.True(t, saved)
		assert.Equal(t, venues.TicketTypeNormal, reservation.Tickets[seatA.String()])
		assert.Equal(t, venues.TicketTypeStudent, reservation.Tickets[seatB.String()])
		assert.Equal(t, 200, reservation.TicketPrice)
		assert.Equal(t, 200, reservation.Total)
		assert.True(t, reservation.SessionTimeout.After(time.Now()))
	})

	t.Run("rejects the whole submission on any conflict", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		rival := Reservation{
			ID:             uuid.New(),
			SessionTimeout: time.Now().Add(time.Minute),
			Tickets:        SeatAssignment{seatA.String(): venues.TicketTypeNormal},
		}
		f.repo.GetActiveReservationsByShowIDFunc = func(ctx context.Context, showID uuid.UUID, now time.Time) ([]Reservation, error) {
			return []Reservation{rival}, nil
		}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{
			seatA.String(): "normal",
			seatB.String(): "normal",
		})

		var conflict *SeatConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, []string{seatA.String()}, conflict.SeatIDs)
		assert.Empty(t, reservation.Tickets)
	})

	t.Run("own active claim does not conflict with itself", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		reservation := &Reservation{
			ID:     uuid.New(),
			ShowID: show.ID,
			Tickets: SeatAssignment{
				seatA.String(): venues.TicketTypeNormal,
			},
			Show: show,
		}

		f.repo.GetActiveReservationsByShowIDFunc = func(ctx context.Context, showID uuid.UUID, now time.Time) ([]Reservation, error) {
			return []Reservation{{
				ID:             reservation.ID,
				SessionTimeout: time.Now().Add(time.Minute),
				Tickets:        reservation.Tickets,
			}}, nil
		}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{
			seatA.String(): "student",
		})
		require.NoError(t, err)
		assert.Equal(t, venues.TicketTypeStudent, reservation.Tickets[seatA.String()])
	})

	t.Run("every seat needs a ticket type", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{seatA.String(): ""})
		assert.ErrorIs(t, err, ErrMissingTicketType)
	})

	t.Run("unknown ticket type is rejected", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{seatA.String(): "vip"})
		assert.ErrorIs(t, err, venues.ErrUnknownTicketType)
	})

	t.Run("rejected for free-seating shows", func(t *testing.T) {
		f := newServiceFixture()
		show := freeSeatingShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{seatA.String(): "normal"})
		assert.ErrorIs(t, err, ErrNotSeatMapSeating)
	})

	t.Run("rejected after finalization", func(t *testing.T) {
		f := newServiceFixture()
		reservation := &Reservation{ID: uuid.New(), Finalized: true}

		err := f.service.AssignSeats(ctx, reservation, map[string]string{seatA.String(): "normal"})
		assert.ErrorIs(t, err, ErrAlreadyFinalized)
	})
}

func TestAssignAutomaticSeats(t *testing.T) {
	ctx := context.Background()

	venueSeats := func(n int) []venues.Seat {
		seats := make([]venues.Seat, n)
		for i := range seats {
			seats[i] = venues.Seat{ID: uuid.New(), GroupID: uuid.New()}
		}
		return seats
	}

	t.Run("draws seats deterministically in type then id order", func(t *testing.T) {
		f := newServiceFixture()
		show := freeSeatingShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		seats := venueSeats(4)
		f.venueRepo.GetSeatsByVenueIDFunc = func(ctx context.Context, venueID uuid.UUID) ([]venues.Seat, error) {
			return seats, nil
		}

		err := f.service.AssignAutomaticSeats(ctx, reservation, map[string]int{
			"normal":  2,
			"student": 1,
		})
		require.NoError(t, err)
		require.Len(t, reservation.Tickets, 3)

		sortedIDs := make([]string, len(seats))
		for i, seat := range seats {
			sortedIDs[i] = seat.ID.String()
		}
		sort.Strings(sortedIDs)

		assert.Equal(t, venues.TicketTypeNormal, reservation.Tickets[sortedIDs[0]])
		assert.Equal(t, venues.TicketTypeNormal, reservation.Tickets[sortedIDs[1]])
		assert.Equal(t, venues.TicketTypeStudent, reservation.Tickets[sortedIDs[2]])
	})

	t.Run("all or nothing when capacity is insufficient", func(t *testing.T) {
		f := newServiceFixture()
		show := freeSeatingShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		f.venueRepo.GetSeatsByVenueIDFunc = func(ctx context.Context, venueID uuid.UUID) ([]venues.Seat, error) {
			return venueSeats(2), nil
		}
		saved := false
		f.repo.SaveReservationFunc = func(ctx context.Context, r *Reservation) error {
			saved = true
			return nil
		}

		err := f.service.AssignAutomaticSeats(ctx, reservation, map[string]int{"normal": 3})

		var capacity *InsufficientCapacityError
		require.ErrorAs(t, err, &capacity)
		assert.Equal(t, 3, capacity.Requested)
		assert.Equal(t, 2, capacity.Available)
		assert.False(t, saved)
		assert.Empty(t, reservation.Tickets)
	})

	t.Run("rejected for seat-map shows", func(t *testing.T) {
		f := newServiceFixture()
		show := seatMapShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		err := f.service.AssignAutomaticSeats(ctx, reservation, map[string]int{"normal": 1})
		assert.ErrorIs(t, err, ErrNotFreeSeating)
	})

	t.Run("negative counts are rejected", func(t *testing.T) {
		f := newServiceFixture()
		show := freeSeatingShow()
		reservation := &Reservation{ID: uuid.New(), ShowID: show.ID, Tickets: SeatAssignment{}, Show: show}

		err := f.service.AssignAutomaticSeats(ctx, reservation, map[string]int{"normal": -1})
		assert.Error(t, err)
	})
}

func TestRecomputePrice(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()
	seatA := uuid.New()
	seatB := uuid.New()

	priceByType := func(ctx context.Context, gID uuid.UUID, ticketType venues.TicketType, at time.Time) (int, error) {
		switch ticketType {
		case venues.TicketTypeStudent:
			return 150, nil
		default:
			return 250, nil
		}
	}

	seatsByIDs := func(ctx context.Context, ids []uuid.UUID) ([]venues.Seat, error) {
		seats := make([]venues.Seat, 0, len(ids))
		for _, id := range ids {
			seats = append(seats, venues.Seat{ID: id, GroupID: groupID})
		}
		return seats, nil
	}

	t.Run("sums per-seat prices from the current models", func(t *testing.T) {
		f := newServiceFixture()
		f.venueSvc.PriceForTypeFunc = priceByType
		f.venueSvc.GetSeatsFunc = seatsByIDs

		reservation := &Reservation{
			ID: uuid.New(),
			Tickets: SeatAssignment{
				seatA.String(): venues.TicketTypeNormal,
				seatB.String(): venues.TicketTypeStudent,
			},
		}

		require.NoError(t, f.service.RecomputePrice(ctx, reservation))
		assert.Equal(t, 400, reservation.TicketPrice)
		assert.Equal(t, 400, reservation.Total)
	})

	t.Run("subtracts an applied discount from the total only", func(t *testing.T) {
		f := newServiceFixture()
		f.venueSvc.PriceForTypeFunc = priceByType
		f.venueSvc.GetSeatsFunc = seatsByIDs
		f.discounts.GetDiscountAmountFunc = func(ctx context.Context, reservationID uuid.UUID) (int, bool, error) {
			return 150, true, nil
		}

		reservation := &Reservation{
			ID: uuid.New(),
			Tickets: SeatAssignment{
				seatA.String(): venues.TicketTypeNormal,
			},
		}

		require.NoError(t, f.service.RecomputePrice(ctx, reservation))
		assert.Equal(t, 250, reservation.TicketPrice)
		assert.Equal(t, 100, reservation.Total)
	})

	t.Run("discount larger than the repriced tickets clamps total at zero", func(t *testing.T) {
		f := newServiceFixture()
		f.venueSvc.PriceForTypeFunc = func(ctx context.Context, gID uuid.UUID, ticketType venues.TicketType, at time.Time) (int, error) {
			return 100, nil
		}
		f.venueSvc.GetSeatsFunc = seatsByIDs
		f.discounts.GetDiscountAmountFunc = func(ctx context.Context, reservationID uuid.UUID) (int, bool, error) {
			return 250, true, nil
		}

		reservation := &Reservation{
			ID: uuid.New(),
			Tickets: SeatAssignment{
				seatA.String(): venues.TicketTypeNormal,
			},
		}

		require.NoError(t, f.service.RecomputePrice(ctx, reservation))
		assert.Equal(t, 100, reservation.TicketPrice)
		assert.Equal(t, 0, reservation.Total, "total must never go negative")
		assert.Equal(t, int64(0), reservation.AmountDue())
	})

	t.Run("empty claim prices to zero", func(t *testing.T) {
		f := newServiceFixture()
		reservation := &Reservation{ID: uuid.New(), Tickets: SeatAssignment{}, TicketPrice: 300, Total: 300}

		require.NoError(t, f.service.RecomputePrice(ctx, reservation))
		assert.Equal(t, 0, reservation.TicketPrice)
		assert.Equal(t, 0, reservation.Total)
	})

	t.Run("propagates pricing configuration errors", func(t *testing.T) {
		f := newServiceFixture()
		f.venueSvc.GetSeatsFunc = seatsByIDs
		f.venueSvc.PriceForTypeFunc = func(ctx context.Context, gID uuid.UUID, ticketType venues.TicketType, at time.Time) (int, error) {
			return 0, venues.ErrNoPricingModel
		}

		reservation := &Reservation{
			ID:      uuid.New(),
			Tickets: SeatAssignment{seatA.String(): venues.TicketTypeNormal},
		}

		err := f.service.RecomputePrice(ctx, reservation)
		assert.ErrorIs(t, err, venues.ErrNoPricingModel)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the reservation and clears the session", func(t *testing.T) {
		f := newServiceFixture()
		sess := f.session()
		showID := uuid.New()
		reservationID := uuid.New()

		require.NoError(t, sess.Set(ctx, session.ShowKey(showID.String()), reservationID.String()))
		require.NoError(t, sess.Set(ctx, session.KeyReservationTimeout, time.Now().Format(time.RFC3339)))
		require.NoError(t, sess.Set(ctx, session.KeyPaymentIntent, "pi_123"))

		var deleted uuid.UUID
		f.repo.DeleteReservationFunc = func(ctx context.Context, id uuid.UUID) error {
			deleted = id
			return nil
		}

		require.NoError(t, f.service.Cancel(ctx, sess, showID))
		assert.Equal(t, reservationID, deleted)

		for _, key := range []string{session.ShowKey(showID.String()), session.KeyReservationTimeout, session.KeyPaymentIntent} {
			_, err := sess.Get(ctx, key)
			assert.ErrorIs(t, err, session.ErrNotFound)
		}
	})

	t.Run("nothing to cancel without a session reservation", func(t *testing.T) {
		f := newServiceFixture()
		err := f.service.Cancel(ctx, f.session(), uuid.New())
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestSessionExpired(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		timeout string
		want    bool
	}{
		{"no recorded timeout", "", false},
		{"future timeout", time.Now().Add(time.Hour).Format(time.RFC3339), false},
		{"past timeout", time.Now().Add(-time.Minute).Format(time.RFC3339), true},
		{"unparseable timeout", "not-a-time", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()
			sess := f.session()
			if tt.timeout != "" {
				require.NoError(t, sess.Set(ctx, session.KeyReservationTimeout, tt.timeout))
			}
			assert.Equal(t, tt.want, f.service.SessionExpired(ctx, sess))
		})
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("maps a missing row onto the domain error", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.service.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})

	t.Run("returns the reservation", func(t *testing.T) {
		f := newServiceFixture()
		want := &Reservation{ID: uuid.New()}
		f.repo.GetReservationByIDFunc = func(ctx context.Context, id uuid.UUID) (*Reservation, error) {
			return want, nil
		}
		got, err := f.service.GetByID(ctx, want.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
