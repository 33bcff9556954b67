package codes

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the character set for publicly visible codes. Uppercase
// alphanumerics only, so codes survive being read over the phone.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	// ReservationCodeLength is used for reservation and ticket codes.
	ReservationCodeLength = 12
	// VoucherCodeLength is longer since vouchers are prepaid value.
	VoucherCodeLength = 16
)

// Generate returns a random code of the given length drawn from Alphabet.
// Codes double as bearer tokens for viewing reservations and tickets, so
// they are generated with crypto/rand.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(Alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random code: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}

	return string(buf), nil
}

// NewReservationCode returns a fresh reservation/ticket code.
func NewReservationCode() (string, error) {
	return Generate(ReservationCodeLength)
}

// NewVoucherCode returns a fresh voucher code.
func NewVoucherCode() (string, error) {
	return Generate(VoucherCodeLength)
}
