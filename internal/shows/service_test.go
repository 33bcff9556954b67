package shows

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"stagedoor/pkg/cache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	GetShowByIDFunc         func(ctx context.Context, id uuid.UUID) (*Show, error)
	GetShowBySlugFunc       func(ctx context.Context, slug string) (*Show, error)
	GetUpcomingShowsFunc    func(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error)
	CountSeatsByVenueIDFunc func(ctx context.Context, venueID uuid.UUID) (int64, error)
}

func (m *MockRepository) GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	if m.GetShowByIDFunc != nil {
		return m.GetShowByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) GetShowBySlug(ctx context.Context, slug string) (*Show, error) {
	if m.GetShowBySlugFunc != nil {
		return m.GetShowBySlugFunc(ctx, slug)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockRepository) GetUpcomingShows(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
	if m.GetUpcomingShowsFunc != nil {
		return m.GetUpcomingShowsFunc(ctx, after, visibleOnly)
	}
	return []Show{}, nil
}

func (m *MockRepository) CountSeatsByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error) {
	if m.CountSeatsByVenueIDFunc != nil {
		return m.CountSeatsByVenueIDFunc(ctx, venueID)
	}
	return 0, nil
}

// MockTicketCounter is a mock implementation of TicketCounter
type MockTicketCounter struct {
	CountTicketsByShowIDFunc func(ctx context.Context, showID uuid.UUID) (int64, error)
}

func (m *MockTicketCounter) CountTicketsByShowID(ctx context.Context, showID uuid.UUID) (int64, error) {
	if m.CountTicketsByShowIDFunc != nil {
		return m.CountTicketsByShowIDFunc(ctx, showID)
	}
	return 0, nil
}

// mockCache is a mock implementation of cache.Service
type mockCache struct {
	GetFunc      func(ctx context.Context, key string, dest interface{}) error
	SetFunc      func(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetOrSetFunc func(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return cache.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	if m.GetOrSetFunc != nil {
		return m.GetOrSetFunc(ctx, key, ttl, fetcher, dest)
	}
	data, err := fetcher()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) HGet(ctx context.Context, key, field string) (string, error) {
	return "", cache.ErrCacheMiss
}

func (m *mockCache) HSet(ctx context.Context, key, field, value string, ttl time.Duration) error {
	return nil
}

func (m *mockCache) HDel(ctx context.Context, key string, fields ...string) error {
	return nil
}

func TestUpcoming(t *testing.T) {
	ctx := context.Background()

	repo := &MockRepository{}
	var gotVisibleOnly bool
	repo.GetUpcomingShowsFunc = func(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
		gotVisibleOnly = visibleOnly
		return []Show{{ID: uuid.New(), Slug: "premiere"}}, nil
	}

	svc := NewService(repo, &MockTicketCounter{})
	result, err := svc.Upcoming(ctx)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.True(t, gotVisibleOnly, "public listing must exclude hidden shows")
}

func TestUpcomingListingCache(t *testing.T) {
	ctx := context.Background()

	t.Run("a cache hit skips the repository", func(t *testing.T) {
		repo := &MockRepository{}
		repo.GetUpcomingShowsFunc = func(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
			t.Fatal("repository must not be hit on a cache hit")
			return nil, nil
		}

		cached := []Show{{ID: uuid.New(), Slug: "premiere"}}
		svc := NewService(repo, &MockTicketCounter{})
		svc.SetCacheService(&mockCache{
			GetFunc: func(ctx context.Context, key string, dest interface{}) error {
				assert.Equal(t, "shows:upcoming", key)
				*dest.(*[]Show) = cached
				return nil
			},
		})

		result, err := svc.Upcoming(ctx)
		require.NoError(t, err)
		assert.Equal(t, cached, result)
	})

	t.Run("a miss populates the cache from the repository", func(t *testing.T) {
		listing := []Show{{ID: uuid.New(), Slug: "matinee"}}
		repo := &MockRepository{}
		repo.GetUpcomingShowsFunc = func(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
			return listing, nil
		}

		var storedKey string
		var storedTTL time.Duration
		svc := NewService(repo, &MockTicketCounter{})
		svc.SetCacheService(&mockCache{
			SetFunc: func(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
				storedKey = key
				storedTTL = ttl
				assert.Equal(t, listing, value)
				return nil
			},
		})

		result, err := svc.Upcoming(ctx)
		require.NoError(t, err)
		assert.Equal(t, listing, result)
		assert.Equal(t, "shows:upcoming", storedKey)
		assert.Equal(t, 5*time.Minute, storedTTL)
	})

	t.Run("a failed cache write still serves the listing", func(t *testing.T) {
		listing := []Show{{ID: uuid.New(), Slug: "premiere"}}
		repo := &MockRepository{}
		repo.GetUpcomingShowsFunc = func(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
			return listing, nil
		}

		svc := NewService(repo, &MockTicketCounter{})
		svc.SetCacheService(&mockCache{
			SetFunc: func(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
				return errors.New("redis down")
			},
		})

		result, err := svc.Upcoming(ctx)
		require.NoError(t, err)
		assert.Equal(t, listing, result)
	})
}

func TestUpcomingWithCoverage(t *testing.T) {
	ctx := context.Background()
	venueID := uuid.New()

	showA := Show{ID: uuid.New(), VenueID: venueID, Slug: "premiere", Date: time.Now().Add(24 * time.Hour)}
	showB := Show{ID: uuid.New(), VenueID: venueID, Slug: "matinee", Date: time.Now().Add(48 * time.Hour)}

	repo := &MockRepository{}
	var gotVisibleOnly bool
	repo.GetUpcomingShowsFunc = func(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
		gotVisibleOnly = visibleOnly
		return []Show{showA, showB}, nil
	}
	seatCountCalls := 0
	repo.CountSeatsByVenueIDFunc = func(ctx context.Context, vID uuid.UUID) (int64, error) {
		seatCountCalls++
		return 44, nil
	}

	counter := &MockTicketCounter{}
	counter.CountTicketsByShowIDFunc = func(ctx context.Context, showID uuid.UUID) (int64, error) {
		if showID == showA.ID {
			return 11, nil
		}
		return 0, nil
	}

	svc := NewService(repo, counter)
	coverage, err := svc.UpcomingWithCoverage(ctx)
	require.NoError(t, err)
	require.Len(t, coverage, 2)

	assert.False(t, gotVisibleOnly, "admin overview includes hidden shows")
	assert.Equal(t, 1, seatCountCalls, "seat counts are cached per venue")

	assert.Equal(t, int64(11), coverage[0].TicketCount)
	assert.Equal(t, int64(44), coverage[0].SeatCount)
	assert.InDelta(t, 25.0, coverage[0].SalesPercentage, 0.001)

	assert.Equal(t, int64(0), coverage[1].TicketCount)
	assert.InDelta(t, 0.0, coverage[1].SalesPercentage, 0.001)
}

func TestShowIsUpcoming(t *testing.T) {
	now := time.Now()
	future := &Show{Date: now.Add(time.Hour)}
	past := &Show{Date: now.Add(-time.Hour)}

	assert.True(t, future.IsUpcoming(now))
	assert.False(t, past.IsUpcoming(now))
}
