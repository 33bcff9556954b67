package notifications

import (
	"context"
	"time"

	"stagedoor/internal/reservations"

	"github.com/google/uuid"
)

// QueueNotifier publishes the ticket email onto the Kafka pipeline; a
// consumer worker delivers it.
type QueueNotifier struct {
	producer Producer
}

// NewQueueNotifier creates a notifier backed by the Kafka producer
func NewQueueNotifier(producer Producer) *QueueNotifier {
	return &QueueNotifier{producer: producer}
}

func (n *QueueNotifier) SendTicketEmail(ctx context.Context, reservation *reservations.Reservation, email, name string) error {
	return n.producer.PublishTicketEmail(ctx, buildNotification(reservation, email, name))
}

// DirectNotifier delivers the ticket email synchronously, for
// deployments without Kafka.
type DirectNotifier struct {
	mailer EmailService
}

// NewDirectNotifier creates a notifier that sends through the mailer
// directly
func NewDirectNotifier(mailer EmailService) *DirectNotifier {
	return &DirectNotifier{mailer: mailer}
}

func (n *DirectNotifier) SendTicketEmail(ctx context.Context, reservation *reservations.Reservation, email, name string) error {
	return n.mailer.SendTicketEmail(ctx, buildNotification(reservation, email, name))
}

func buildNotification(reservation *reservations.Reservation, email, name string) *TicketEmailNotification {
	now := time.Now()
	notification := &TicketEmailNotification{
		ID:              uuid.New(),
		ReservationID:   reservation.ID,
		ReservationCode: reservation.ReservationCode,
		RecipientEmail:  email,
		RecipientName:   name,
		NumTickets:      reservation.NumTickets(),
		Total:           reservation.Total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if reservation.Show != nil {
		notification.ShowSlug = reservation.Show.Slug
		notification.ShowDate = reservation.Show.Date
	}
	return notification
}
