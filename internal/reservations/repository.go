package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateReservation(ctx context.Context, reservation *Reservation) error
	GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetReservationByCode(ctx context.Context, code string) (*Reservation, error)
	SaveReservation(ctx context.Context, reservation *Reservation) error
	DeleteReservation(ctx context.Context, id uuid.UUID) error

	// GetActiveReservationsByShowID returns the reservations currently
	// holding seats for a show: finalized ones plus those whose session
	// timeout is still in the future. Expiry is evaluated lazily here,
	// not by a background sweep.
	GetActiveReservationsByShowID(ctx context.Context, showID uuid.UUID, now time.Time) ([]Reservation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateReservation(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Show").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetReservationByCode(ctx context.Context, code string) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Show").
		Where("reservation_code = ?", code).
		First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) SaveReservation(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Save(reservation).Error
}

func (r *repository) DeleteReservation(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Reservation{}, "id = ?", id).Error
}

func (r *repository) GetActiveReservationsByShowID(ctx context.Context, showID uuid.UUID, now time.Time) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Where("finalized = ? OR session_timeout > ?", true, now).
		Find(&result).Error
	return result, err
}
