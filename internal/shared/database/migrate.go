package database

import (
	"stagedoor/internal/reservations"
	"stagedoor/internal/shows"
	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"
	"stagedoor/internal/vouchers"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&venues.Venue{},
		&venues.SeatingGroup{},
		&venues.Seat{},
		&venues.PricingModel{},
		&shows.Production{},
		&shows.Show{},
		&reservations.Reservation{},
		&vouchers.Voucher{},
		&vouchers.Discount{},
		&tickets.Account{},
		&tickets.Ticket{},
	)
}
