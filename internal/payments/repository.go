package payments

import (
	"context"

	"stagedoor/internal/reservations"
	"stagedoor/internal/tickets"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// FindAccount matches an account on exact billing fields.
	FindAccount(ctx context.Context, name, email, phone string) (*tickets.Account, error)

	// Finalize commits a reservation in one transaction: the account is
	// created when it has no id yet, the ticket rows are inserted, and
	// the reservation is marked finalized. A unique violation on the
	// ticket insert aborts the whole transaction and surfaces as
	// gorm.ErrDuplicatedKey.
	Finalize(ctx context.Context, reservation *reservations.Reservation, account *tickets.Account, rows []tickets.Ticket) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAccount(ctx context.Context, name, email, phone string) (*tickets.Account, error) {
	var account tickets.Account
	err := r.db.WithContext(ctx).
		Where("name = ? AND email = ? AND phone = ?", name, email, phone).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *repository) Finalize(ctx context.Context, reservation *reservations.Reservation, account *tickets.Account, rows []tickets.Ticket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if account.ID == uuid.Nil {
			if err := tx.Create(account).Error; err != nil {
				return err
			}
		}

		for i := range rows {
			rows[i].AccountID = account.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		reservation.Finalized = true
		return tx.Save(reservation).Error
	})
}
