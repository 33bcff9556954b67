package venues

import (
	"errors"
	"fmt"
	"time"
)

// Pricing configuration errors. These indicate operator misconfiguration
// (no price set for a period, or an incomplete price table) and propagate
// as hard failures rather than defaulting to a free ticket.
var (
	ErrNoPricingModel    = errors.New("no pricing model valid at the requested time")
	ErrUnknownTicketType = errors.New("pricing model has no price for ticket type")
)

// ResolvePrice selects the price for ticketType from the pricing model
// active at the given time. The active model is the one with the greatest
// valid_from at or before `at` among the supplied models, which must all
// belong to the same seating group. Side-effect free.
func ResolvePrice(models []PricingModel, ticketType TicketType, at time.Time) (int, error) {
	var active *PricingModel
	for i := range models {
		m := &models[i]
		if m.ValidFrom.After(at) {
			continue
		}
		if active == nil || m.ValidFrom.After(active.ValidFrom) {
			active = m
		}
	}

	if active == nil {
		return 0, fmt.Errorf("%w: at=%s", ErrNoPricingModel, at.Format(time.RFC3339))
	}

	price, ok := active.Prices[ticketType]
	if !ok {
		return 0, fmt.Errorf("%w: type=%s", ErrUnknownTicketType, ticketType)
	}

	return price, nil
}

// ResolveTable returns the full price table active at the given time, for
// seat-map rendering payloads.
func ResolveTable(models []PricingModel, at time.Time) (PriceTable, error) {
	var active *PricingModel
	for i := range models {
		m := &models[i]
		if m.ValidFrom.After(at) {
			continue
		}
		if active == nil || m.ValidFrom.After(active.ValidFrom) {
			active = m
		}
	}

	if active == nil {
		return nil, fmt.Errorf("%w: at=%s", ErrNoPricingModel, at.Format(time.RFC3339))
	}

	return active.Prices, nil
}
