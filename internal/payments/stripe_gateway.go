package payments

import (
	"context"
	"errors"
	"fmt"

	"stagedoor/internal/shared/config"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/charge"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeGateway implements Gateway against the Stripe API
type StripeGateway struct {
	cfg config.StripeConfig
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(cfg config.StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	stripe.Key = cfg.SecretKey

	return &StripeGateway{cfg: cfg}, nil
}

func (g *StripeGateway) CreateIntent(ctx context.Context, p CreateIntentParams) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(p.Amount),
		Currency:           stripe.String(p.Currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Metadata: map[string]string{
			"reservation_id": p.ReservationID,
		},
	}
	params.Context = ctx
	if p.StatementDescriptor != "" {
		params.StatementDescriptor = stripe.String(p.StatementDescriptor)
	}
	if p.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(p.IdempotencyKey)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) RetrieveIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		if isStripeNotFound(err) {
			return nil, ErrIntentNotFound
		}
		return nil, fmt.Errorf("failed to retrieve payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) ModifyIntentAmount(ctx context.Context, id string, amount int64) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount: stripe.Int64(amount),
	}
	params.Context = ctx

	pi, err := paymentintent.Update(id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment intent: %w", err)
	}
	return toIntent(pi), nil
}

func (g *StripeGateway) CancelIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := paymentintent.Cancel(id, params); err != nil {
		return fmt.Errorf("failed to cancel payment intent: %w", err)
	}
	return nil
}

func (g *StripeGateway) ChargeBillingDetails(ctx context.Context, chargeID string) (BillingDetails, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx

	ch, err := charge.Get(chargeID, params)
	if err != nil {
		return BillingDetails{}, fmt.Errorf("failed to retrieve charge: %w", err)
	}
	return billingFromCharge(ch), nil
}

func toIntent(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:            pi.ID,
		ClientSecret:  pi.ClientSecret,
		Amount:        pi.Amount,
		Status:        string(pi.Status),
		ReservationID: pi.Metadata["reservation_id"],
	}
}

func billingFromCharge(ch *stripe.Charge) BillingDetails {
	if ch == nil || ch.BillingDetails == nil {
		return BillingDetails{}
	}
	return BillingDetails{
		Name:  ch.BillingDetails.Name,
		Email: ch.BillingDetails.Email,
		Phone: ch.BillingDetails.Phone,
	}
}

func isStripeNotFound(err error) bool {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return stripeErr.HTTPStatusCode == 404
	}
	return false
}
