package venues

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Venue operations
	GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	GetVenueWithSeating(ctx context.Context, id uuid.UUID) (*Venue, error)

	// Seat operations
	GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error)
	GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error)
	GetSeatsByVenueID(ctx context.Context, venueID uuid.UUID) ([]Seat, error)

	// Pricing operations
	GetPricingModelsByGroupID(ctx context.Context, groupID uuid.UUID) ([]PricingModel, error)
	GetPricingModelsByVenueID(ctx context.Context, venueID uuid.UUID) ([]PricingModel, error)
	CreatePricingModel(ctx context.Context, model *PricingModel) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetVenueByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) GetVenueWithSeating(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var venue Venue
	err := r.db.WithContext(ctx).
		Preload("SeatingGroups").
		Preload("SeatingGroups.Seats").
		Where("id = ?", id).
		First(&venue).Error
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *repository) GetSeatByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	var seat Seat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&seat).Error
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

func (r *repository) GetSeatsByIDs(ctx context.Context, ids []uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&seats).Error
	return seats, err
}

func (r *repository) GetSeatsByVenueID(ctx context.Context, venueID uuid.UUID) ([]Seat, error) {
	var seats []Seat
	err := r.db.WithContext(ctx).
		Joins("JOIN seating_groups ON seating_groups.id = seats.group_id").
		Where("seating_groups.venue_id = ?", venueID).
		Order("seats.id ASC").
		Find(&seats).Error
	return seats, err
}

func (r *repository) GetPricingModelsByGroupID(ctx context.Context, groupID uuid.UUID) ([]PricingModel, error) {
	var models []PricingModel
	err := r.db.WithContext(ctx).
		Where("seating_group_id = ?", groupID).
		Order("valid_from DESC").
		Find(&models).Error
	return models, err
}

func (r *repository) GetPricingModelsByVenueID(ctx context.Context, venueID uuid.UUID) ([]PricingModel, error) {
	var models []PricingModel
	err := r.db.WithContext(ctx).
		Joins("JOIN seating_groups ON seating_groups.id = pricing_models.seating_group_id").
		Where("seating_groups.venue_id = ?", venueID).
		Order("pricing_models.valid_from DESC").
		Find(&models).Error
	return models, err
}

func (r *repository) CreatePricingModel(ctx context.Context, model *PricingModel) error {
	return r.db.WithContext(ctx).Create(model).Error
}
