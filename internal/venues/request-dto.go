package venues

import "time"

// CreatePricingModelRequest records a new price table for a seating group
type CreatePricingModelRequest struct {
	SeatingGroupID string         `json:"seating_group_id" binding:"required,uuid"`
	Prices         map[string]int `json:"prices" binding:"required"`
	ValidFrom      time.Time      `json:"valid_from"`
}
