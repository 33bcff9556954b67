package vouchers

import "errors"

var (
	// ErrVoucherNotFound covers unknown and expired codes alike; the
	// customer-facing message must not reveal which.
	ErrVoucherNotFound = errors.New("voucher not found")

	// ErrVoucherAlreadyUsed means the voucher has been consumed by some
	// reservation, this one or another.
	ErrVoucherAlreadyUsed = errors.New("voucher has already been used")

	// ErrAlreadyDiscounted means the reservation already carries a
	// discount; discounts do not stack.
	ErrAlreadyDiscounted = errors.New("reservation already has a discount")
)
