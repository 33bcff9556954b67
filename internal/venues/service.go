package venues

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seat geometry only changes when a venue is re-seeded, so the cached
// copy can live long; the seat-map endpoint reads it on every render.
const (
	venueSeatsCacheKeyPrefix = "venues:seats:"
	venueSeatsCacheTTL       = time.Hour
)

// Service interface defines the contract for venue and pricing logic
type Service interface {
	// Pricing Resolver
	PriceForType(ctx context.Context, groupID uuid.UUID, ticketType TicketType, at time.Time) (int, error)
	PriceForSeat(ctx context.Context, seat *Seat, ticketType TicketType, at time.Time) (int, error)
	PriceTablesForVenue(ctx context.Context, venueID uuid.UUID, at time.Time) (map[uuid.UUID]PriceTable, error)

	// Seat lookups
	GetSeat(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeats(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
	SeatsForVenue(ctx context.Context, venueID uuid.UUID) ([]Seat, error)

	// Pricing administration
	CreatePricingModel(ctx context.Context, req CreatePricingModelRequest) (*PricingModel, error)

	// SetCacheService injects the seat geometry cache; without it every
	// seat-map render hits the database.
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

// NewService creates a new venue service instance
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// PriceForType resolves the price of a ticket type in a seating group at a
// point in time, using the effective-dated pricing model history.
func (s *service) PriceForType(ctx context.Context, groupID uuid.UUID, ticketType TicketType, at time.Time) (int, error) {
	models, err := s.repo.GetPricingModelsByGroupID(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to load pricing models: %w", err)
	}

	price, err := ResolvePrice(models, ticketType, at)
	if err != nil {
		return 0, fmt.Errorf("seating_group=%s: %w", groupID, err)
	}
	return price, nil
}

// PriceForSeat resolves a seat's price through its seating group
func (s *service) PriceForSeat(ctx context.Context, seat *Seat, ticketType TicketType, at time.Time) (int, error) {
	return s.PriceForType(ctx, seat.GroupID, ticketType, at)
}

// PriceTablesForVenue returns the currently active price table per seating
// group, keyed by group id. Groups without any active model are skipped;
// their seats cannot be priced and should not be offered.
func (s *service) PriceTablesForVenue(ctx context.Context, venueID uuid.UUID, at time.Time) (map[uuid.UUID]PriceTable, error) {
	models, err := s.repo.GetPricingModelsByVenueID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pricing models: %w", err)
	}

	byGroup := make(map[uuid.UUID][]PricingModel)
	for _, m := range models {
		byGroup[m.SeatingGroupID] = append(byGroup[m.SeatingGroupID], m)
	}

	tables := make(map[uuid.UUID]PriceTable, len(byGroup))
	for groupID, groupModels := range byGroup {
		table, err := ResolveTable(groupModels, at)
		if err != nil {
			if errors.Is(err, ErrNoPricingModel) {
				continue
			}
			return nil, err
		}
		tables[groupID] = table
	}

	return tables, nil
}

func (s *service) GetSeat(ctx context.Context, id uuid.UUID) (*Seat, error) {
	seat, err := s.repo.GetSeatByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("seat not found")
		}
		return nil, fmt.Errorf("failed to get seat: %w", err)
	}
	return seat, nil
}

func (s *service) GetSeats(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	seats, err := s.repo.GetSeatsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}
	return seats, nil
}

func (s *service) SeatsForVenue(ctx context.Context, venueID uuid.UUID) ([]Seat, error) {
	if s.cacheService == nil {
		return s.loadVenueSeats(ctx, venueID)
	}

	var seats []Seat
	err := s.cacheService.GetOrSet(ctx, venueSeatsCacheKeyPrefix+venueID.String(), venueSeatsCacheTTL,
		func() (interface{}, error) {
			return s.loadVenueSeats(ctx, venueID)
		}, &seats)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (s *service) loadVenueSeats(ctx context.Context, venueID uuid.UUID) ([]Seat, error) {
	seats, err := s.repo.GetSeatsByVenueID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get venue seats: %w", err)
	}
	return seats, nil
}

// CreatePricingModel records a new effective-dated price table for a
// seating group. Existing models are never mutated; the new model simply
// supersedes older ones from its valid_from onwards.
func (s *service) CreatePricingModel(ctx context.Context, req CreatePricingModelRequest) (*PricingModel, error) {
	groupID, err := uuid.Parse(req.SeatingGroupID)
	if err != nil {
		return nil, fmt.Errorf("invalid seating group ID: %w", err)
	}

	prices := make(PriceTable, len(req.Prices))
	for typeStr, price := range req.Prices {
		ticketType := TicketType(typeStr)
		if !ticketType.IsValid() {
			return nil, fmt.Errorf("unknown ticket type: %s", typeStr)
		}
		if price < 0 {
			return nil, fmt.Errorf("price must not be negative for type %s", typeStr)
		}
		prices[ticketType] = price
	}

	validFrom := req.ValidFrom
	if validFrom.IsZero() {
		validFrom = time.Now()
	}

	model := &PricingModel{
		SeatingGroupID: groupID,
		Prices:         prices,
		ValidFrom:      validFrom,
	}

	if err := s.repo.CreatePricingModel(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to create pricing model: %w", err)
	}

	return model, nil
}
