package tickets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Availability support
	GetTakenSeatIDs(ctx context.Context, showID uuid.UUID) ([]uuid.UUID, error)

	// Ticket lookups
	GetTicketsByShowAndSeats(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]Ticket, error)
	GetTicketByCode(ctx context.Context, code string) (*Ticket, error)

	// Stats
	CountTicketsByShowID(ctx context.Context, showID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// GetTakenSeatIDs returns the seats already committed to finalized tickets
// for a show
func (r *repository) GetTakenSeatIDs(ctx context.Context, showID uuid.UUID) ([]uuid.UUID, error) {
	var seatIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("show_id = ?", showID).
		Pluck("seat_id", &seatIDs).Error
	return seatIDs, err
}

func (r *repository) GetTicketsByShowAndSeats(ctx context.Context, showID uuid.UUID, seatIDs []uuid.UUID) ([]Ticket, error) {
	var result []Ticket
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Preload("Account").
		Where("show_id = ? AND seat_id IN ?", showID, seatIDs).
		Find(&result).Error
	return result, err
}

func (r *repository) GetTicketByCode(ctx context.Context, code string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).
		Preload("Seat").
		Preload("Show").
		Preload("Account").
		Where("ticket_code = ?", code).
		First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) CountTicketsByShowID(ctx context.Context, showID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("show_id = ?", showID).
		Count(&count).Error
	return count, err
}
