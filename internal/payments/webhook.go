package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// ErrInvalidPayload marks a webhook body that could not be parsed or
// whose signature did not verify.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// EventPaymentIntentSucceeded is the only event type this service acts
// on; everything else is acknowledged and dropped.
const EventPaymentIntentSucceeded = "payment_intent.succeeded"

// ParseWebhookEvent verifies and decodes a Stripe webhook payload. With
// an empty secret the signature check is skipped (local development).
func ParseWebhookEvent(payload []byte, signature, secret string) (*stripe.Event, error) {
	if secret != "" {
		event, err := webhook.ConstructEvent(payload, signature, secret)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		return &event, nil
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &event, nil
}

// PaymentIntentFromEvent extracts the payment intent object carried by
// the event.
func PaymentIntentFromEvent(event *stripe.Event) (*stripe.PaymentIntent, error) {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &pi, nil
}

// BillingDetailsForIntent resolves the billing details of a succeeded
// intent. Webhook payloads usually carry the latest charge inline; when
// only its id is present the charge is fetched from the gateway.
func BillingDetailsForIntent(ctx context.Context, gw Gateway, pi *stripe.PaymentIntent) (BillingDetails, error) {
	if pi.LatestCharge == nil {
		return BillingDetails{}, nil
	}
	if pi.LatestCharge.BillingDetails != nil {
		return billingFromCharge(pi.LatestCharge), nil
	}
	return gw.ChargeBillingDetails(ctx, pi.LatestCharge.ID)
}
