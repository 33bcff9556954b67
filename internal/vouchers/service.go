package vouchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagedoor/internal/reservations"
	"stagedoor/internal/shared/config"
	"stagedoor/internal/shared/session"
	"stagedoor/internal/shared/utils/codes"
	"stagedoor/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IntentSyncer keeps an already-created payment intent in line with the
// reservation's total after a discount lands (to avoid circular
// dependency on the payments package)
type IntentSyncer interface {
	SyncIntent(ctx context.Context, sess *session.Session, reservation *reservations.Reservation) error
}

// Service interface defines the contract for voucher and discount logic
type Service interface {
	// ApplyVoucher consumes the voucher identified by code for the given
	// reservation, atomically recording the discount and lowering the
	// total. Discount amount never exceeds the ticket price.
	ApplyVoucher(ctx context.Context, sess *session.Session, reservation *reservations.Reservation, code string) (*Discount, error)

	// Admin operations
	CreateVoucher(ctx context.Context, amount int, note, createdBy string, expiry *time.Time) (*Voucher, error)
	ListVouchers(ctx context.Context, activeOnly bool) ([]Voucher, error)

	// reservations.DiscountLookup
	GetDiscountAmount(ctx context.Context, reservationID uuid.UUID) (int, bool, error)

	// SetIntentSyncer injects the payment intent syncer after
	// construction; the payment service is built later in the wiring.
	SetIntentSyncer(intents IntentSyncer)
}

type service struct {
	repo    Repository
	intents IntentSyncer
	cfg     config.VoucherConfig
	logger  *logger.Logger
}

// NewService creates a new voucher service instance
func NewService(repo Repository, cfg config.VoucherConfig) Service {
	return &service{
		repo:   repo,
		cfg:    cfg,
		logger: logger.GetDefault(),
	}
}

func (s *service) SetIntentSyncer(intents IntentSyncer) {
	s.intents = intents
}

func (s *service) ApplyVoucher(ctx context.Context, sess *session.Session, reservation *reservations.Reservation, code string) (*Discount, error) {
	if reservation.Finalized {
		return nil, reservations.ErrAlreadyFinalized
	}

	voucher, err := s.repo.GetVoucherByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVoucherNotFound
		}
		return nil, fmt.Errorf("failed to look up voucher: %w", err)
	}
	if voucher.IsExpired(time.Now()) {
		return nil, ErrVoucherNotFound
	}

	if _, err := s.repo.GetDiscountByReservationID(ctx, reservation.ID); err == nil {
		return nil, ErrAlreadyDiscounted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing discount: %w", err)
	}

	if _, err := s.repo.GetDiscountByVoucherID(ctx, voucher.ID); err == nil {
		return nil, ErrVoucherAlreadyUsed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check voucher consumption: %w", err)
	}

	amount := voucher.Amount
	if amount > reservation.TicketPrice {
		amount = reservation.TicketPrice
	}

	discount := &Discount{
		VoucherID:     voucher.ID,
		ReservationID: reservation.ID,
		Amount:        amount,
	}
	reservation.Total = reservation.TicketPrice - amount

	if err := s.repo.ApplyDiscount(ctx, discount, reservation); err != nil {
		// Backstop for races past the checks above. The unique columns
		// cannot tell us which side collided, so re-read.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if _, lookupErr := s.repo.GetDiscountByReservationID(ctx, reservation.ID); lookupErr == nil {
				return nil, ErrAlreadyDiscounted
			}
			return nil, ErrVoucherAlreadyUsed
		}
		return nil, fmt.Errorf("failed to apply voucher: %w", err)
	}

	s.logger.LogVoucherApplied(ctx, reservation.ID.String(), amount)

	if sess != nil && s.intents != nil {
		if err := s.intents.SyncIntent(ctx, sess, reservation); err != nil {
			return nil, fmt.Errorf("failed to sync payment intent: %w", err)
		}
	}

	return discount, nil
}

func (s *service) CreateVoucher(ctx context.Context, amount int, note, createdBy string, expiry *time.Time) (*Voucher, error) {
	if amount < s.cfg.MinAmount || amount > s.cfg.MaxAmount {
		return nil, fmt.Errorf("voucher amount must be between %d and %d", s.cfg.MinAmount, s.cfg.MaxAmount)
	}

	code, err := codes.NewVoucherCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate voucher code: %w", err)
	}

	expiryDate := NextSeasonExpiry(time.Now(), s.cfg.SeasonCutoffMonth, s.cfg.SeasonCutoffDay)
	if expiry != nil {
		expiryDate = *expiry
	}

	voucher := &Voucher{
		Code:       code,
		Amount:     amount,
		ExpiryDate: expiryDate,
		CreatedBy:  createdBy,
		Note:       note,
	}

	if err := s.repo.CreateVoucher(ctx, voucher); err != nil {
		return nil, fmt.Errorf("failed to create voucher: %w", err)
	}
	return voucher, nil
}

func (s *service) ListVouchers(ctx context.Context, activeOnly bool) ([]Voucher, error) {
	if activeOnly {
		return s.repo.ListActiveVouchers(ctx, time.Now())
	}
	return s.repo.ListVouchers(ctx)
}

// GetDiscountAmount reports the applied discount of a reservation, if any
func (s *service) GetDiscountAmount(ctx context.Context, reservationID uuid.UUID) (int, bool, error) {
	discount, err := s.repo.GetDiscountByReservationID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return discount.Amount, true, nil
}
