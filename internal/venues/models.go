package venues

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketType is the closed set of price categories a seat can be sold under.
type TicketType string

const (
	TicketTypeNormal  TicketType = "normal"
	TicketTypeStudent TicketType = "student"
	TicketTypeSponsor TicketType = "sponsor"
)

// AllTicketTypes returns the ticket types in their stable, documented order.
// Automatic seat assignment iterates types in this order, which keeps the
// allocation deterministic.
func AllTicketTypes() []TicketType {
	return []TicketType{TicketTypeNormal, TicketTypeStudent, TicketTypeSponsor}
}

// IsValid checks if the ticket type is one of the known categories
func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeNormal, TicketTypeStudent, TicketTypeSponsor:
		return true
	}
	return false
}

// String returns the string representation of TicketType
func (t TicketType) String() string {
	return string(t)
}

// Venue defines a physical location where shows are staged
type Venue struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Address     string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	SeatingGroups []SeatingGroup `json:"seating_groups,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE;"`
}

// SeatingGroup is a named block of seats sharing one pricing history
type SeatingGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	VenueID   uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Venue         *Venue         `json:"venue,omitempty" gorm:"foreignKey:VenueID"`
	Seats         []Seat         `json:"seats,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE;"`
	PricingModels []PricingModel `json:"pricing_models,omitempty" gorm:"foreignKey:SeatingGroupID;constraint:OnDelete:RESTRICT;"`
}

// Seat is a single sellable position. Seats are referenced by string keys
// inside reservation ticket maps, and are never deleted once tickets
// reference them.
type Seat struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	GroupID   uuid.UUID `gorm:"type:uuid;index;not null" json:"group_id"`
	Name      string    `gorm:"type:varchar(40);not null" json:"name"`
	XPos      int       `json:"x_pos"`
	YPos      int       `json:"y_pos"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Group *SeatingGroup `json:"group,omitempty" gorm:"foreignKey:GroupID"`
}

// PriceTable maps ticket types to integer prices (whole currency units)
type PriceTable map[TicketType]int

// Value implements driver.Valuer for JSONB persistence
func (p PriceTable) Value() (driver.Value, error) {
	if p == nil {
		p = PriceTable{}
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB persistence
func (p *PriceTable) Scan(value interface{}) error {
	if value == nil {
		*p = PriceTable{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for PriceTable: %T", value)
	}

	return json.Unmarshal(data, p)
}

// PricingModel is an effective-dated price table for a seating group. The
// model active at time T is the one with the greatest valid_from <= T;
// older models are kept for historical pricing.
type PricingModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SeatingGroupID uuid.UUID  `gorm:"type:uuid;index;not null" json:"seating_group_id"`
	Prices         PriceTable `gorm:"type:jsonb;not null" json:"prices"`
	ValidFrom      time.Time  `gorm:"index;not null" json:"valid_from"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relationships
	SeatingGroup *SeatingGroup `json:"seating_group,omitempty" gorm:"foreignKey:SeatingGroupID"`
}

// TableName sets the table name for Venue
func (Venue) TableName() string {
	return "venues"
}

// TableName sets the table name for SeatingGroup
func (SeatingGroup) TableName() string {
	return "seating_groups"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// TableName sets the table name for PricingModel
func (PricingModel) TableName() string {
	return "pricing_models"
}
