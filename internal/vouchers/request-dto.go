package vouchers

import "time"

// ApplyVoucherRequest redeems a voucher code against the current
// reservation
type ApplyVoucherRequest struct {
	Code string `json:"code" validate:"required"`
}

// CreateVoucherRequest issues a new voucher (admin only). Expiry defaults
// to the next season cutoff when omitted.
type CreateVoucherRequest struct {
	Amount int        `json:"amount" validate:"required,min=1"`
	Note   string     `json:"note" validate:"max=255"`
	Expiry *time.Time `json:"expiry,omitempty"`
}
