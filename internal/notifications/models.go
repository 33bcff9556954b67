package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationStatus tracks a ticket email through the pipeline
type NotificationStatus string

const (
	NotificationStatusQueued  NotificationStatus = "queued"
	NotificationStatusSending NotificationStatus = "sending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// TicketEmailNotification is the message published after a reservation is
// finalized. It carries everything the mailer needs; the consumer never
// reads the database.
type TicketEmailNotification struct {
	ID              uuid.UUID          `json:"id"`
	ReservationID   uuid.UUID          `json:"reservation_id"`
	ReservationCode string             `json:"reservation_code"`
	RecipientEmail  string             `json:"recipient_email"`
	RecipientName   string             `json:"recipient_name"`
	ShowSlug        string             `json:"show_slug"`
	ShowDate        time.Time          `json:"show_date"`
	NumTickets      int                `json:"num_tickets"`
	Total           int                `json:"total"`
	Status          NotificationStatus `json:"status"`
	Attempts        int                `json:"attempts"`
	LastError       string             `json:"last_error,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// ToJSON serializes the notification for the wire
func (n *TicketEmailNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes all emails for one recipient to the same partition
func (n *TicketEmailNotification) PartitionKey() string {
	return n.RecipientEmail
}

// MarkSent records a successful delivery
func (n *TicketEmailNotification) MarkSent() {
	n.Status = NotificationStatusSent
	n.UpdatedAt = time.Now()
}

// MarkFailed records a delivery failure
func (n *TicketEmailNotification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	n.LastError = err.Error()
	n.UpdatedAt = time.Now()
}
