package vouchers

import (
	"time"

	"stagedoor/internal/reservations"

	"github.com/google/uuid"
)

// Voucher is a prepaid discount code issued by an operator. Globally
// single-use: consumption is recorded as a Discount row, and the unique
// voucher_id column makes a second consumption impossible.
type Voucher struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code       string    `gorm:"type:varchar(16);unique;not null" json:"code"`
	Amount     int       `gorm:"not null" json:"amount"`
	ExpiryDate time.Time `gorm:"index;not null" json:"expiry_date"`
	CreatedBy  string    `gorm:"type:varchar(255);not null" json:"created_by"`
	Note       string    `gorm:"type:varchar(255);not null;default:''" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName sets the table name for Voucher
func (Voucher) TableName() string {
	return "vouchers"
}

// IsExpired reports whether the voucher can no longer be redeemed
func (v *Voucher) IsExpired(now time.Time) bool {
	return v.ExpiryDate.Before(now)
}

// Discount records the consumption of a voucher by a reservation. Both
// sides are unique: a voucher discounts at most one reservation, and a
// reservation carries at most one discount. Deleting the reservation
// cascades here, which releases the voucher for reuse.
type Discount struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VoucherID     uuid.UUID `gorm:"type:uuid;unique;not null" json:"voucher_id"`
	ReservationID uuid.UUID `gorm:"type:uuid;unique;not null" json:"reservation_id"`
	Amount        int       `gorm:"not null" json:"amount"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Voucher     *Voucher                  `json:"voucher,omitempty" gorm:"foreignKey:VoucherID;constraint:OnDelete:RESTRICT;"`
	Reservation *reservations.Reservation `json:"-" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Discount
func (Discount) TableName() string {
	return "discounts"
}

// NextSeasonExpiry returns the default voucher expiry: the next upcoming
// season cutoff (end of that day). A voucher issued on the cutoff day is
// valid through the same day.
func NextSeasonExpiry(now time.Time, month time.Month, day int) time.Time {
	expiry := time.Date(now.Year(), month, day, 23, 59, 59, 0, now.Location())
	if expiry.Before(now) {
		expiry = expiry.AddDate(1, 0, 0)
	}
	return expiry
}
