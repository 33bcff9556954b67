package payments

// FreeCheckoutRequest confirms a zero-total reservation. The billing
// fields become the customer account on the tickets.
type FreeCheckoutRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
	Reference string `json:"reference"`
}

// ResendEmailRequest re-sends the ticket email for a finalized
// reservation
type ResendEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}
