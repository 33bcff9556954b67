package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/reservations"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/session"
	"stagedoor/internal/shared/utils/codes"
	"stagedoor/internal/tickets"
	"stagedoor/internal/venues"
	"stagedoor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrNothingDue means a payment intent was requested for a fully
	// discounted reservation; the free-checkout path applies instead.
	ErrNothingDue = errors.New("reservation total is zero")

	// ErrPaymentRequired means free checkout was attempted for a
	// reservation that still owes money.
	ErrPaymentRequired = errors.New("reservation requires payment")

	// ErrNoSeatsSelected means finalization was attempted for a
	// reservation without any seat claims.
	ErrNoSeatsSelected = errors.New("reservation has no seats")
)

// Notifier dispatches the ticket email after finalization (to avoid
// circular dependency on the notifications package)
type Notifier interface {
	SendTicketEmail(ctx context.Context, reservation *reservations.Reservation, email, name string) error
}

// Service interface defines the contract for payment finalization
type Service interface {
	// HandleSuccessfulPayment turns a paid reservation into tickets.
	// Idempotent: an already finalized reservation is a no-op.
	HandleSuccessfulPayment(ctx context.Context, reservation *reservations.Reservation, billing BillingDetails, reference string) error

	// GetOrRefreshPaymentIntent returns the session's payment intent for
	// the reservation, creating, amending, or replacing it as needed.
	GetOrRefreshPaymentIntent(ctx context.Context, sess *session.Session, reservation *reservations.Reservation) (*Intent, error)

	// SyncIntent brings an existing intent in line with the
	// reservation's total, cancelling it when nothing is owed anymore.
	SyncIntent(ctx context.Context, sess *session.Session, reservation *reservations.Reservation) error

	// ConfirmFreeCheckout finalizes a zero-total reservation without
	// touching the gateway.
	ConfirmFreeCheckout(ctx context.Context, reservation *reservations.Reservation, billing BillingDetails, reference string) error

	ResendTicketEmail(ctx context.Context, reservationCode, email string) error
}

type service struct {
	repo               Repository
	reservationService reservations.Service
	venueService       venues.Service
	gateway            Gateway
	notifier           Notifier
	cfg                config.StripeConfig
	logger             *logger.Logger
}

// NewService creates a new payment service instance
func NewService(
	repo Repository,
	reservationService reservations.Service,
	venueService venues.Service,
	gateway Gateway,
	notifier Notifier,
	cfg config.StripeConfig,
) Service {
	return &service{
		repo:               repo,
		reservationService: reservationService,
		venueService:       venueService,
		gateway:            gateway,
		notifier:           notifier,
		cfg:                cfg,
		logger:             logger.GetDefault(),
	}
}

func (s *service) HandleSuccessfulPayment(ctx context.Context, reservation *reservations.Reservation, billing BillingDetails, reference string) error {
	if reservation.Finalized {
		return nil
	}
	if len(reservation.Tickets) == 0 {
		return ErrNoSeatsSelected
	}

	account, err := s.repo.FindAccount(ctx, billing.Name, billing.Email, billing.Phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up account: %w", err)
		}
		account = &tickets.Account{
			Name:  billing.Name,
			Email: billing.Email,
			Phone: billing.Phone,
		}
	}

	rows, err := s.buildTickets(ctx, reservation, reference)
	if err != nil {
		return err
	}

	if err := s.repo.Finalize(ctx, reservation, account, rows); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another reservation won the race for at least one of these
			// seats; the unique (show, seat) index rejected the insert
			// and the transaction rolled back whole.
			s.logger.LogSeatConflict(ctx, reservation.ShowID.String(), reservation.SeatIDs())
			return &reservations.SeatConflictError{SeatIDs: reservation.SeatIDs()}
		}
		return fmt.Errorf("failed to finalize reservation: %w", err)
	}

	s.logger.LogReservationFinalized(ctx, reservation.ID.String(), len(rows), reservation.Total)

	if err := s.notifier.SendTicketEmail(ctx, reservation, account.Email, account.Name); err != nil {
		// The reservation stays finalized; the email can be resent.
		return fmt.Errorf("reservation finalized but ticket email failed: %w", err)
	}
	return nil
}

// buildTickets materializes the reservation's seat claims as ticket rows,
// re-resolving each price against the pricing models active right now.
func (s *service) buildTickets(ctx context.Context, reservation *reservations.Reservation, reference string) ([]tickets.Ticket, error) {
	now := time.Now()
	rows := make([]tickets.Ticket, 0, len(reservation.Tickets))

	for _, seatIDStr := range reservation.SeatIDs() {
		seatID, err := uuid.Parse(seatIDStr)
		if err != nil {
			return nil, fmt.Errorf("invalid seat ID in reservation: %s", seatIDStr)
		}

		seat, err := s.venueService.GetSeat(ctx, seatID)
		if err != nil {
			return nil, err
		}

		ticketType := reservation.Tickets[seatIDStr]
		price, err := s.venueService.PriceForType(ctx, seat.GroupID, ticketType, now)
		if err != nil {
			return nil, err
		}

		code, err := codes.NewReservationCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket code: %w", err)
		}

		rows = append(rows, tickets.Ticket{
			ShowID:     reservation.ShowID,
			SeatID:     seatID,
			Price:      price,
			TicketType: ticketType,
			TicketCode: code,
			Reference:  reference,
		})
	}

	return rows, nil
}

func (s *service) GetOrRefreshPaymentIntent(ctx context.Context, sess *session.Session, reservation *reservations.Reservation) (*Intent, error) {
	amount := reservation.AmountDue()
	if amount == 0 {
		return nil, ErrNothingDue
	}

	if intentID, err := sess.Get(ctx, session.KeyPaymentIntent); err == nil {
		intent, retrieveErr := s.gateway.RetrieveIntent(ctx, intentID)
		if retrieveErr != nil && !errors.Is(retrieveErr, ErrIntentNotFound) {
			return nil, retrieveErr
		}

		if retrieveErr == nil {
			if intent.ReservationID == reservation.ID.String() {
				if intent.Amount != amount {
					intent, err = s.gateway.ModifyIntentAmount(ctx, intentID, amount)
					if err != nil {
						return nil, err
					}
					s.logger.LogPaymentIntent(ctx, "updated", intent.ID, reservation.ID.String())
				}
				return intent, nil
			}
			// The session carries an intent from an older reservation.
			s.logger.LogPaymentIntent(ctx, "mismatch", intent.ID, reservation.ID.String())
		}
	}

	intent, err := s.gateway.CreateIntent(ctx, CreateIntentParams{
		Amount:              amount,
		Currency:            s.cfg.Currency,
		StatementDescriptor: s.cfg.StatementDescriptor,
		IdempotencyKey:      reservation.ID.String(),
		ReservationID:       reservation.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	if err := sess.Set(ctx, session.KeyPaymentIntent, intent.ID); err != nil {
		return nil, err
	}

	s.logger.LogPaymentIntent(ctx, "created", intent.ID, reservation.ID.String())
	return intent, nil
}

func (s *service) SyncIntent(ctx context.Context, sess *session.Session, reservation *reservations.Reservation) error {
	intentID, err := sess.Get(ctx, session.KeyPaymentIntent)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil
		}
		return err
	}

	amount := reservation.AmountDue()
	if amount == 0 {
		if err := s.gateway.CancelIntent(ctx, intentID); err != nil {
			return err
		}
		s.logger.LogPaymentIntent(ctx, "cancelled", intentID, reservation.ID.String())
		return sess.Delete(ctx, session.KeyPaymentIntent)
	}

	if _, err := s.gateway.ModifyIntentAmount(ctx, intentID, amount); err != nil {
		return err
	}
	s.logger.LogPaymentIntent(ctx, "updated", intentID, reservation.ID.String())
	return nil
}

func (s *service) ConfirmFreeCheckout(ctx context.Context, reservation *reservations.Reservation, billing BillingDetails, reference string) error {
	if !reservation.IsFree() {
		return ErrPaymentRequired
	}
	return s.HandleSuccessfulPayment(ctx, reservation, billing, reference)
}

func (s *service) ResendTicketEmail(ctx context.Context, reservationCode, email string) error {
	detail, err := s.reservationService.GetByCode(ctx, reservationCode)
	if err != nil {
		return err
	}
	return s.notifier.SendTicketEmail(ctx, detail.Reservation, email, "")
}
