package payments

import (
	"context"
	"errors"
)

// ErrIntentNotFound is returned when a stored payment intent id no longer
// resolves at the gateway.
var ErrIntentNotFound = errors.New("payment intent not found")

// ErrGatewayDisabled is returned by the disabled gateway; only the free
// checkout path works without a payment provider.
var ErrGatewayDisabled = errors.New("payment gateway is disabled")

// Intent is the gateway-neutral view of a payment intent
type Intent struct {
	ID            string `json:"id"`
	ClientSecret  string `json:"client_secret"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
	ReservationID string `json:"-"`
}

// BillingDetails is the customer identity attached to a completed payment
type BillingDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateIntentParams describes a new payment intent. The idempotency key
// is the reservation id, so retried creates for the same reservation
// yield the same intent.
type CreateIntentParams struct {
	Amount              int64
	Currency            string
	StatementDescriptor string
	IdempotencyKey      string
	ReservationID       string
}

// Gateway is the payment provider abstraction. Amounts are in the
// currency's minor unit.
type Gateway interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	ModifyIntentAmount(ctx context.Context, id string, amount int64) (*Intent, error)
	CancelIntent(ctx context.Context, id string) error

	// ChargeBillingDetails fetches the billing details of a charge, for
	// webhook payloads that carry only the charge id.
	ChargeBillingDetails(ctx context.Context, chargeID string) (BillingDetails, error)
}

// disabledGateway rejects every operation. Wired when no payment
// provider is configured, so the rest of the flow keeps working.
type disabledGateway struct{}

// NewDisabledGateway returns a gateway that always fails
func NewDisabledGateway() Gateway {
	return disabledGateway{}
}

func (disabledGateway) CreateIntent(context.Context, CreateIntentParams) (*Intent, error) {
	return nil, ErrGatewayDisabled
}

func (disabledGateway) RetrieveIntent(context.Context, string) (*Intent, error) {
	return nil, ErrGatewayDisabled
}

func (disabledGateway) ModifyIntentAmount(context.Context, string, int64) (*Intent, error) {
	return nil, ErrGatewayDisabled
}

func (disabledGateway) CancelIntent(context.Context, string) error {
	return ErrGatewayDisabled
}

func (disabledGateway) ChargeBillingDetails(context.Context, string) (BillingDetails, error) {
	return BillingDetails{}, ErrGatewayDisabled
}
