package reservations

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"stagedoor/internal/shows"
	"stagedoor/internal/venues"

	"github.com/google/uuid"
)

// State is the reservation lifecycle variant. A reservation moves
// Open -> Priced -> Finalized; expiry is not a stored transition but a
// derived exclusion from the active set.
type State string

const (
	StateOpen      State = "OPEN"
	StatePriced    State = "PRICED"
	StateFinalized State = "FINALIZED"
)

// SeatAssignment maps seat ids (as string keys) to the ticket type chosen
// for that seat. It is the reservation's ephemeral claim, not yet real
// Ticket rows.
type SeatAssignment map[string]venues.TicketType

// Value implements driver.Valuer for JSONB persistence
func (a SeatAssignment) Value() (driver.Value, error) {
	if a == nil {
		a = SeatAssignment{}
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner for JSONB persistence
func (a *SeatAssignment) Scan(value interface{}) error {
	if value == nil {
		*a = SeatAssignment{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for SeatAssignment: %T", value)
	}

	return json.Unmarshal(data, a)
}

// SeatIDs returns the claimed seat ids in ascending order
func (a SeatAssignment) SeatIDs() []string {
	ids := make([]string, 0, len(a))
	for id := range a {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reservation is a mutable, ephemeral hold on a set of seats for a show.
// Its claim on those seats lasts while it is active: either finalized, or
// not yet past its session timeout.
type Reservation struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowID          uuid.UUID      `gorm:"type:uuid;index;not null" json:"show_id"`
	TicketPrice     int            `gorm:"not null;default:0" json:"ticket_price"`
	Total           int            `gorm:"not null;default:0" json:"total"`
	Tickets         SeatAssignment `gorm:"type:jsonb;not null" json:"tickets"`
	SessionTimeout  time.Time      `gorm:"index;not null" json:"session_timeout"`
	Finalized       bool           `gorm:"not null;default:false" json:"finalized"`
	ReservationCode string         `gorm:"type:varchar(16);unique;not null" json:"reservation_code"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relationships
	Show *shows.Show `json:"show,omitempty" gorm:"foreignKey:ShowID;constraint:OnDelete:CASCADE;"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// State computes the lifecycle variant
func (r *Reservation) State() State {
	if r.Finalized {
		return StateFinalized
	}
	if len(r.Tickets) > 0 {
		return StatePriced
	}
	return StateOpen
}

// IsActive reports whether the reservation currently holds its seats
// against other customers. This is the sole seat-locking mechanism:
// a time-boundable claim, not an explicit row lock.
func (r *Reservation) IsActive(now time.Time) bool {
	return r.Finalized || r.SessionTimeout.After(now)
}

// SeatIDs returns the claimed seat ids in ascending order
func (r *Reservation) SeatIDs() []string {
	return r.Tickets.SeatIDs()
}

// NumTickets returns the number of claimed seats
func (r *Reservation) NumTickets() int {
	return len(r.Tickets)
}

// AmountDue returns the total in the currency's minor unit, as the
// payment gateway expects
func (r *Reservation) AmountDue() int64 {
	return int64(r.Total) * 100
}

// IsFree reports whether nothing is owed (fully discounted or empty)
func (r *Reservation) IsFree() bool {
	return r.AmountDue() == 0
}
