package shows

import (
	"time"

	"stagedoor/internal/venues"

	"github.com/google/uuid"
)

// Production is a staged work; each Production has many scheduled Shows
type Production struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	AltName     string    `gorm:"type:varchar(100)" json:"alt_name,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Show is a scheduled performance of a Production at a Venue. Shows are
// effectively immutable once tickets exist against them; foreign keys
// protect historical tickets.
type Show struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProductionID     uuid.UUID `gorm:"type:uuid;index;not null" json:"production_id"`
	VenueID          uuid.UUID `gorm:"type:uuid;index;not null" json:"venue_id"`
	Date             time.Time `gorm:"index;not null" json:"date"`
	Visible          bool      `gorm:"default:true" json:"visible"`
	Slug             string    `gorm:"type:varchar(20);unique;not null" json:"slug"`
	ShortDescription string    `gorm:"type:varchar(255)" json:"short_description,omitempty"`
	FreeSeating      bool      `gorm:"default:false" json:"free_seating"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relationships
	Production *Production   `json:"production,omitempty" gorm:"foreignKey:ProductionID;constraint:OnDelete:RESTRICT;"`
	Venue      *venues.Venue `json:"venue,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Production
func (Production) TableName() string {
	return "productions"
}

// TableName sets the table name for Show
func (Show) TableName() string {
	return "shows"
}

// IsUpcoming checks whether the show is still in the future
func (s *Show) IsUpcoming(now time.Time) bool {
	return s.Date.After(now)
}

// ShowCoverage is the admin sales summary for one show
type ShowCoverage struct {
	ShowID          uuid.UUID `json:"show_id"`
	Slug            string    `json:"slug"`
	Date            time.Time `json:"date"`
	TicketCount     int64     `json:"ticket_count"`
	SeatCount       int64     `json:"seat_count"`
	SalesPercentage float64   `json:"sales_percentage"`
}
