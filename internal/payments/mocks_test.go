package payments

import (
	"context"
	"time"

	"stagedoor/internal/reservations"
	"stagedoor/internal/shared/session"
	"stagedoor/internal/shows"
	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"
	"stagedoor/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is an in-memory session.Store for tests
type memStore struct {
	data map[string]map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: map[string]map[string]string{}}
}

func (s *memStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	if val, ok := s.data[sessionID][key]; ok {
		return val, nil
	}
	return "", session.ErrNotFound
}

func (s *memStore) Set(ctx context.Context, sessionID, key, value string) error {
	if s.data[sessionID] == nil {
		s.data[sessionID] = map[string]string{}
	}
	s.data[sessionID][key] = value
	return nil
}

func (s *memStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	for _, key := range keys {
		delete(s.data[sessionID], key)
	}
	return nil
}

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	FindAccountFunc func(ctx context.Context, name, email, phone string) (*tickets.Account, error)
	FinalizeFunc    func(ctx context.Context, reservation *reservations.Reservation, account *tickets.Account, rows []tickets.Ticket) error
}

func (m *MockRepository) FindAccount(ctx context.Context, name, email, phone string) (*tickets.Account, error) {
	if m.FindAccountFunc != nil {
		return m.FindAccountFunc(ctx, name, email, phone)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) Finalize(ctx context.Context, reservation *reservations.Reservation, account *tickets.Account, rows []tickets.Ticket) error {
	if m.FinalizeFunc != nil {
		return m.FinalizeFunc(ctx, reservation, account, rows)
	}
	reservation.Finalized = true
	return nil
}

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	CreateIntentFunc         func(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrieveIntentFunc       func(ctx context.Context, id string) (*Intent, error)
	ModifyIntentAmountFunc   func(ctx context.Context, id string, amount int64) (*Intent, error)
	CancelIntentFunc         func(ctx context.Context, id string) error
	ChargeBillingDetailsFunc func(ctx context.Context, chargeID string) (BillingDetails, error)
}

func (m *MockGateway) CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, params)
	}
	return &Intent{
		ID:            "pi_mock",
		ClientSecret:  "pi_mock_secret",
		Amount:        params.Amount,
		Status:        "requires_payment_method",
		ReservationID: params.ReservationID,
	}, nil
}

func (m *MockGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	if m.RetrieveIntentFunc != nil {
		return m.RetrieveIntentFunc(ctx, id)
	}
	return nil, ErrIntentNotFound
}

func (m *MockGateway) ModifyIntentAmount(ctx context.Context, id string, amount int64) (*Intent, error) {
	if m.ModifyIntentAmountFunc != nil {
		return m.ModifyIntentAmountFunc(ctx, id, amount)
	}
	return &Intent{ID: id, Amount: amount}, nil
}

func (m *MockGateway) CancelIntent(ctx context.Context, id string) error {
	if m.CancelIntentFunc != nil {
		return m.CancelIntentFunc(ctx, id)
	}
	return nil
}

func (m *MockGateway) ChargeBillingDetails(ctx context.Context, chargeID string) (BillingDetails, error) {
	if m.ChargeBillingDetailsFunc != nil {
		return m.ChargeBillingDetailsFunc(ctx, chargeID)
	}
	return BillingDetails{}, nil
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	SendTicketEmailFunc func(ctx context.Context, reservation *reservations.Reservation, email, name string) error
}

func (m *MockNotifier) SendTicketEmail(ctx context.Context, reservation *reservations.Reservation, email, name string) error {
	if m.SendTicketEmailFunc != nil {
		return m.SendTicketEmailFunc(ctx, reservation, email, name)
	}
	return nil
}

// MockReservationService is a mock implementation of reservations.Service
type MockReservationService struct {
	CreateOrResumeFunc       func(ctx context.Context, sess *session.Session, show *shows.Show) (*reservations.Reservation, error)
	AssignSeatsFunc          func(ctx context.Context, reservation *reservations.Reservation, assignments map[string]string) error
	AssignAutomaticSeatsFunc func(ctx context.Context, reservation *reservations.Reservation, counts map[string]int) error
	RecomputePriceFunc       func(ctx context.Context, reservation *reservations.Reservation) error
	CancelFunc               func(ctx context.Context, sess *session.Session, showID uuid.UUID) error
	SessionExpiredFunc       func(ctx context.Context, sess *session.Session) bool
	TouchSessionFunc         func(ctx context.Context, sess *session.Session) error
	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*reservations.Reservation, error)
	GetByCodeFunc            func(ctx context.Context, code string) (*reservations.ReservationDetail, error)
	SeatMapFunc              func(ctx context.Context, show *shows.Show, reservation *reservations.Reservation) (*reservations.SeatMapResponse, error)
}

func (m *MockReservationService) CreateOrResume(ctx context.Context, sess *session.Session, show *shows.Show) (*reservations.Reservation, error) {
	if m.CreateOrResumeFunc != nil {
		return m.CreateOrResumeFunc(ctx, sess, show)
	}
	return nil, reservations.ErrReservationNotFound
}

func (m *MockReservationService) AssignSeats(ctx context.Context, reservation *reservations.Reservation, assignments map[string]string) error {
	if m.AssignSeatsFunc != nil {
		return m.AssignSeatsFunc(ctx, reservation, assignments)
	}
	return nil
}

func (m *MockReservationService) AssignAutomaticSeats(ctx context.Context, reservation *reservations.Reservation, counts map[string]int) error {
	if m.AssignAutomaticSeatsFunc != nil {
		return m.AssignAutomaticSeatsFunc(ctx, reservation, counts)
	}
	return nil
}

func (m *MockReservationService) RecomputePrice(ctx context.Context, reservation *reservations.Reservation) error {
	if m.RecomputePriceFunc != nil {
		return m.RecomputePriceFunc(ctx, reservation)
	}
	return nil
}

func (m *MockReservationService) Cancel(ctx context.Context, sess *session.Session, showID uuid.UUID) error {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, sess, showID)
	}
	return nil
}

func (m *MockReservationService) SessionExpired(ctx context.Context, sess *session.Session) bool {
	if m.SessionExpiredFunc != nil {
		return m.SessionExpiredFunc(ctx, sess)
	}
	return false
}

func (m *MockReservationService) TouchSession(ctx context.Context, sess *session.Session) error {
	if m.TouchSessionFunc != nil {
		return m.TouchSessionFunc(ctx, sess)
	}
	return nil
}

func (m *MockReservationService) GetByID(ctx context.Context, id uuid.UUID) (*reservations.Reservation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, reservations.ErrReservationNotFound
}

func (m *MockReservationService) GetByCode(ctx context.Context, code string) (*reservations.ReservationDetail, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	return nil, reservations.ErrReservationNotFound
}

func (m *MockReservationService) SeatMap(ctx context.Context, show *shows.Show, reservation *reservations.Reservation) (*reservations.SeatMapResponse, error) {
	if m.SeatMapFunc != nil {
		return m.SeatMapFunc(ctx, show, reservation)
	}
	return nil, nil
}

// MockVenueService is a mock implementation of venues.Service
type MockVenueService struct {
	PriceForTypeFunc        func(ctx context.Context, groupID uuid.UUID, ticketType venues.TicketType, at time.Time) (int, error)
	PriceForSeatFunc        func(ctx context.Context, seat *venues.Seat, ticketType venues.TicketType, at time.Time) (int, error)
	PriceTablesForVenueFunc func(ctx context.Context, venueID uuid.UUID, at time.Time) (map[uuid.UUID]venues.PriceTable, error)
	GetSeatFunc             func(ctx context.Context, id uuid.UUID) (*venues.Seat, error)
	GetSeatsFunc            func(ctx context.Context, ids []uuid.UUID) ([]venues.Seat, error)
	SeatsForVenueFunc       func(ctx context.Context, venueID uuid.UUID) ([]venues.Seat, error)
	CreatePricingModelFunc  func(ctx context.Context, req venues.CreatePricingModelRequest) (*venues.PricingModel, error)
}

func (m *MockVenueService) PriceForType(ctx context.Context, groupID uuid.UUID, ticketType venues.TicketType, at time.Time) (int, error) {
	if m.PriceForTypeFunc != nil {
		return m.PriceForTypeFunc(ctx, groupID, ticketType, at)
	}
	return 100, nil
}

func (m *MockVenueService) PriceForSeat(ctx context.Context, seat *venues.Seat, ticketType venues.TicketType, at time.Time) (int, error) {
	if m.PriceForSeatFunc != nil {
		return m.PriceForSeatFunc(ctx, seat, ticketType, at)
	}
	return 100, nil
}

func (m *MockVenueService) PriceTablesForVenue(ctx context.Context, venueID uuid.UUID, at time.Time) (map[uuid.UUID]venues.PriceTable, error) {
	if m.PriceTablesForVenueFunc != nil {
		return m.PriceTablesForVenueFunc(ctx, venueID, at)
	}
	return map[uuid.UUID]venues.PriceTable{}, nil
}

func (m *MockVenueService) GetSeat(ctx context.Context, id uuid.UUID) (*venues.Seat, error) {
	if m.GetSeatFunc != nil {
		return m.GetSeatFunc(ctx, id)
	}
	return &venues.Seat{ID: id}, nil
}

func (m *MockVenueService) GetSeats(ctx context.Context, ids []uuid.UUID) ([]venues.Seat, error) {
	if m.GetSeatsFunc != nil {
		return m.GetSeatsFunc(ctx, ids)
	}
	seats := make([]venues.Seat, 0, len(ids))
	for _, id := range ids {
		seats = append(seats, venues.Seat{ID: id})
	}
	return seats, nil
}

func (m *MockVenueService) SeatsForVenue(ctx context.Context, venueID uuid.UUID) ([]venues.Seat, error) {
	if m.SeatsForVenueFunc != nil {
		return m.SeatsForVenueFunc(ctx, venueID)
	}
	return []venues.Seat{}, nil
}

func (m *MockVenueService) CreatePricingModel(ctx context.Context, req venues.CreatePricingModelRequest) (*venues.PricingModel, error) {
	if m.CreatePricingModelFunc != nil {
		return m.CreatePricingModelFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockVenueService) SetCacheService(cacheService cache.Service) {}
