package reservations

import (
	"context"
	"time"

	"stagedoor/internal/shared/session"
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
	CreateReservationFunc             func(ctx context.Context, reservation *Reservation) error
	GetReservationByIDFunc            func(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetReservationByCodeFunc          func(ctx context.Context, code string) (*Reservation, error)
	SaveReservationFunc               func(ctx context.Context, reservation *Reservation) error
	DeleteReservationFunc             func(ctx context.Context, id uuid.UUID) error
	GetActiveReservationsByShowIDFunc func(ctx context.Context, showID uuid.UUID, now time.Time) ([]Reservation, error)
}

func (m *MockRepository) CreateReservation(ctx context.Context, reservation *Reservation) error {
	if m.CreateReservationFunc != nil {
		return m.CreateReservationFunc(ctx, reservation)
	}
	reservation.ID = uuid.New()
	return nil
}

func (m *MockRepository) GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	if m.GetReservationByIDFunc != nil {
		return m.GetReservationByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) GetReservationByCode(ctx context.Context, code string) (*Reservation, error) {
	if m.GetReservationByCodeFunc != nil {
		return m.GetReservationByCodeFunc(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) SaveReservation(ctx context.Context, reservation *Reservation) error {
	if m.SaveReservationFunc != nil {
		return m.SaveReservationFunc(ctx, reservation)
	}
	return nil
}

func (m *MockRepository) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	if m.DeleteReservationFunc != nil {
		return m.DeleteReservationFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) GetActiveReservationsByShowID(ctx context.Context, showID uuid.UUID, now time.Time) ([]Reservation, error) {
	if m.GetActiveReservationsByShowIDFunc != nil {
		return m.GetActiveReservationsByShowIDFunc(ctx, showID, now)
	}
	return []Reservation{}, nil
}

// MockTicketRepository is a mock implementation of tickets.Repository
type MockTicketRepository struct {
	GetTakenSeatIDsFunc          func(ctx context.Context, showID uuid.UUID) ([]uuid.UUID, error)
	GetTicketsByShowAndSeatsFunc func(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]tickets.Ticket, error)
	GetTicketByCodeFunc          func(ctx context.Context, code string) (*tickets.Ticket, error)
	CountTicketsByShowIDFunc     func(ctx context.Context, showID uuid.UUID) (int64, error)
}

func (m *MockTicketRepository) GetTakenSeatIDs(ctx context.Context, showID uuid.UUID) ([]uuid.UUID, error) {
	if m.GetTakenSeatIDsFunc != nil {
		return m.GetTakenSeatIDsFunc(ctx, showID)
	}
	return []uuid.UUID{}, nil
}

func (m *MockTicketRepository) GetTicketsByShowAndSeats(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]tickets.Ticket, error) {
	if m.GetTicketsByShowAndSeatsFunc != nil {
		return m.GetTicketsByShowAndSeatsFunc(ctx, showID, seatIDs)
	}
	return []tickets.Ticket{}, nil
}

func (m *MockTicketRepository) GetTicketByCode(ctx context.Context, code string) (*tickets.Ticket, error) {
	if m.GetTicketByCodeFunc != nil {
		return m.GetTicketByCodeFunc(ctx, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockTicketRepository) CountTicketsByShowID(ctx context.Context, showID uuid.UUID) (int64, error) {
	if m.CountTicketsByShowIDFunc != nil {
		return m.CountTicketsByShowIDFunc(ctx, showID)
	}
	return 0, nil
}

// MockVenueRepository is a mock implementation of venues.Repository
type MockVenueRepository struct {
	GetVenueByIDFunc              func(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
	GetVenueWithSeatingFunc       func(ctx context.Context, id uuid.UUID) (*venues.Venue, error)
	GetSeatByIDFunc               func(ctx context.Context, id uuid.UUID) (*venues.Seat, error)
	GetSeatsByIDsFunc             func(ctx context.Context, ids []uuid.UUID) ([]venues.Seat, error)
	GetSeatsByVenueIDFunc         func(ctx context.Context, venueID uuid.UUID) ([]venues.Seat, error)
	GetPricingModelsByGroupIDFunc func(ctx context.Context, groupID uuid.UUID) ([]venues.PricingModel, error)
	GetPricingModelsByVenueIDFunc func(ctx context.Context, venueID uuid.UUID) ([]venues.PricingModel, error)
	CreatePricingModelFunc        func(ctx context.Context, model *venues.PricingModel) error
}

func (m *MockVenueRepository) GetVenueByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	if m.GetVenueByIDFunc != nil {
		return m.GetVenueByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockVenueRepository) GetVenueWithSeating(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	if m.GetVenueWithSeatingFunc != nil {
		return m.GetVenueWithSeatingFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockVenueRepository) GetSeatByID(ctx context.Context, id uuid.UUID) (*venues.Seat, error) {
	if m.GetSeatByIDFunc != nil {
		return m.GetSeatByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockVenueRepository) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]venues.Seat, error) {
	if m.GetSeatsByIDsFunc != nil {
		return m.GetSeatsByIDsFunc(ctx, ids)
	}
	return []venues.Seat{}, nil
}

func (m *MockVenueRepository) GetSeatsByVenueID(ctx context.Context, venueID uuid.UUID) ([]venues.Seat, error) {
	if m.GetSeatsByVenueIDFunc != nil {
		return m.GetSeatsByVenueIDFunc(ctx, venueID)
	}
	return []venues.Seat{}, nil
}

func (m *MockVenueRepository) GetPricingModelsByGroupID(ctx context.Context, groupID uuid.UUID) ([]venues.PricingModel, error) {
	if m.GetPricingModelsByGroupIDFunc != nil {
		return m.GetPricingModelsByGroupIDFunc(ctx, groupID)
	}
	return []venues.PricingModel{}, nil
}

func (m *MockVenueRepository) GetPricingModelsByVenueID(ctx context.Context, venueID uuid.UUID) ([]venues.PricingModel, error) {
	if m.GetPricingModelsByVenueIDFunc != nil {
		return m.GetPricingModelsByVenueIDFunc(ctx, venueID)
	}
	return []venues.PricingModel{}, nil
}

func (m *MockVenueRepository) CreatePricingModel(ctx context.Context, model *venues.PricingModel) error {
	if m.CreatePricingModelFunc != nil {
		return m.CreatePricingModelFunc(ctx, model)
	}
	return nil
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

// MockDiscountLookup is a mock implementation of DiscountLookup
type MockDiscountLookup struct {
	GetDiscountAmountFunc func(ctx context.Context, reservationID uuid.UUID) (int, bool, error)
}

func (m *MockDiscountLookup) GetDiscountAmount(ctx context.Context, reservationID uuid.UUID) (int, bool, error) {
	if m.GetDiscountAmountFunc != nil {
		return m.GetDiscountAmountFunc(ctx, reservationID)
	}
	return 0, false, nil
}
