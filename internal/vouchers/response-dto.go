package vouchers

import "time"

// VoucherResponse is the admin-facing shape of a voucher
type VoucherResponse struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Amount     int       `json:"amount"`
	ExpiryDate time.Time `json:"expiry_date"`
	CreatedBy  string    `json:"created_by"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToResponse converts a voucher to its response form
func ToResponse(v *Voucher) VoucherResponse {
	return VoucherResponse{
		ID:         v.ID.String(),
		Code:       v.Code,
		Amount:     v.Amount,
		ExpiryDate: v.ExpiryDate,
		CreatedBy:  v.CreatedBy,
		Note:       v.Note,
		CreatedAt:  v.CreatedAt,
	}
}

// DiscountResponse is returned after a successful voucher application
type DiscountResponse struct {
	Amount      int `json:"amount"`
	TicketPrice int `json:"ticket_price"`
	Total       int `json:"total"`
}
