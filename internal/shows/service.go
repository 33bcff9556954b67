package shows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/pkg/cache"
	"stagedoor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cache settings for the public show listing. Shows only change through
// seeding and deployment, so a short TTL is the only invalidation needed.
const (
	upcomingShowsCacheKey = "shows:upcoming"
	upcomingShowsCacheTTL = 5 * time.Minute
)

// TicketCounter counts sold tickets per show (to avoid circular dependency
// on the tickets package)
type TicketCounter interface {
	CountTicketsByShowID(ctx context.Context, showID uuid.UUID) (int64, error)
}

// Service interface defines the contract for show browsing logic
type Service interface {
	GetShow(ctx context.Context, id uuid.UUID) (*Show, error)
	GetShowBySlug(ctx context.Context, slug string) (*Show, error)
	Upcoming(ctx context.Context) ([]Show, error)
	UpcomingWithCoverage(ctx context.Context) ([]ShowCoverage, error)

	// SetCacheService injects the listing cache; without it every
	// listing hits the database.
	SetCacheService(cacheService cache.Service)
}

type service struct {
	repo          Repository
	ticketCounter TicketCounter
	cacheService  cache.Service
}

// NewService creates a new show service instance
func NewService(repo Repository, ticketCounter TicketCounter) Service {
	return &service{
		repo:          repo,
		ticketCounter: ticketCounter,
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetShow(ctx context.Context, id uuid.UUID) (*Show, error) {
	show, err := s.repo.GetShowByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("show not found")
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	return show, nil
}

func (s *service) GetShowBySlug(ctx context.Context, slug string) (*Show, error) {
	show, err := s.repo.GetShowBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("show not found")
		}
		return nil, fmt.Errorf("failed to get show: %w", err)
	}
	return show, nil
}

// Upcoming lists visible shows that have not yet been performed. The
// public listing is the hottest read and is served from the cache when
// one is wired.
func (s *service) Upcoming(ctx context.Context) ([]Show, error) {
	if s.cacheService != nil {
		var cached []Show
		if err := s.cacheService.Get(ctx, upcomingShowsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	result, err := s.repo.GetUpcomingShows(ctx, time.Now(), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming shows: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, upcomingShowsCacheKey, result, upcomingShowsCacheTTL); err != nil {
			logger.GetDefault().Warn("failed to cache upcoming shows", "error", err)
		}
	}
	return result, nil
}

// UpcomingWithCoverage aggregates sold-ticket counts against venue
// capacity for each upcoming show (admin sales overview)
func (s *service) UpcomingWithCoverage(ctx context.Context) ([]ShowCoverage, error) {
	upcoming, err := s.repo.GetUpcomingShows(ctx, time.Now(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to list shows: %w", err)
	}

	seatCounts := make(map[uuid.UUID]int64)
	coverage := make([]ShowCoverage, 0, len(upcoming))
	for _, show := range upcoming {
		ticketCount, err := s.ticketCounter.CountTicketsByShowID(ctx, show.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count tickets for show %s: %w", show.ID, err)
		}

		seatCount, ok := seatCounts[show.VenueID]
		if !ok {
			seatCount, err = s.repo.CountSeatsByVenueID(ctx, show.VenueID)
			if err != nil {
				return nil, fmt.Errorf("failed to count seats for venue %s: %w", show.VenueID, err)
			}
			seatCounts[show.VenueID] = seatCount
		}

		var percentage float64
		if seatCount > 0 {
			percentage = 100 * float64(ticketCount) / float64(seatCount)
		}

		coverage = append(coverage, ShowCoverage{
			ShowID:          show.ID,
			Slug:            show.Slug,
			Date:            show.Date,
			TicketCount:     ticketCount,
			SeatCount:       seatCount,
			SalesPercentage: percentage,
		})
	}

	return coverage, nil
}
