package tickets

import (
	"time"

	"stagedoor/internal/shows"
	"stagedoor/internal/venues"

	"github.com/google/uuid"
)

// Account is a customer identity created or reused at finalization time,
// keyed by exact billing fields.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);index;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(255)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ticket is an immutable finalized seat assignment. The unique
// (show_id, seat_id) index is the hard seat-allocation guarantee: when two
// reservations race to finalization for the same seat, exactly one ticket
// insert succeeds.
type Ticket struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ShowID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:unique_seat_per_show" json:"show_id"`
	SeatID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:unique_seat_per_show" json:"seat_id"`
	AccountID  uuid.UUID         `gorm:"type:uuid;index;not null" json:"account_id"`
	Price      int               `gorm:"not null" json:"price"`
	TicketType venues.TicketType `gorm:"type:varchar(10);not null;default:'normal'" json:"ticket_type"`
	TicketCode string            `gorm:"type:varchar(16);unique;not null" json:"ticket_code"`
	Reference  string            `gorm:"type:varchar(255);not null;default:''" json:"reference"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`

	// Relationships
	Show    *shows.Show  `json:"show,omitempty" gorm:"foreignKey:ShowID;constraint:OnDelete:RESTRICT;"`
	Seat    *venues.Seat `json:"seat,omitempty" gorm:"foreignKey:SeatID;constraint:OnDelete:RESTRICT;"`
	Account *Account     `json:"account,omitempty" gorm:"foreignKey:AccountID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}
