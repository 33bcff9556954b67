package shows

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error)
	GetShowBySlug(ctx context.Context, slug string) (*Show, error)
	GetUpcomingShows(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error)
	CountSeatsByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetShowByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Production").
		Preload("Venue").
		Where("id = ?", id).
		First(&show).Error
	if err != nil {
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetShowBySlug(ctx context.Context, slug string) (*Show, error) {
	var show Show
	err := r.db.WithContext(ctx).
		Preload("Production").
		Preload("Venue").
		Where("slug = ?", slug).
		First(&show).Error
	if err != nil {
		return nil, err
	}
	return &show, nil
}

func (r *repository) GetUpcomingShows(ctx context.Context, after time.Time, visibleOnly bool) ([]Show, error) {
	query := r.db.WithContext(ctx).
		Preload("Production").
		Where("date >= ?", after).
		Order("date ASC")

	if visibleOnly {
		query = query.Where("visible = ?", true)
	}

	var result []Show
	err := query.Find(&result).Error
	return result, err
}

func (r *repository) CountSeatsByVenueID(ctx context.Context, venueID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("seats").
		Joins("JOIN seating_groups ON seating_groups.id = seats.group_id").
		Where("seating_groups.venue_id = ?", venueID).
		Count(&count).Error
	return count, err
}
