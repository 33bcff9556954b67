package vouchers

import (
	"context"
	"time"

	"stagedoor/internal/reservations"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateVoucher(ctx context.Context, voucher *Voucher) error
	GetVoucherByCode(ctx context.Context, code string) (*Voucher, error)
	ListVouchers(ctx context.Context) ([]Voucher, error)
	ListActiveVouchers(ctx context.Context, now time.Time) ([]Voucher, error)

	GetDiscountByReservationID(ctx context.Context, reservationID uuid.UUID) (*Discount, error)
	GetDiscountByVoucherID(ctx context.Context, voucherID uuid.UUID) (*Discount, error)

	// ApplyDiscount inserts the discount and persists the reservation's
	// updated totals in one transaction. The unique voucher_id and
	// reservation_id columns back up the service-level checks; a
	// concurrent double apply surfaces as gorm.ErrDuplicatedKey.
	ApplyDiscount(ctx context.Context, discount *Discount, reservation *reservations.Reservation) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVoucher(ctx context.Context, voucher *Voucher) error {
	return r.db.WithContext(ctx).Create(voucher).Error
}

func (r *repository) GetVoucherByCode(ctx context.Context, code string) (*Voucher, error) {
	var voucher Voucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) ListVouchers(ctx context.Context) ([]Voucher, error) {
	var result []Voucher
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&result).Error
	return result, err
}

func (r *repository) ListActiveVouchers(ctx context.Context, now time.Time) ([]Voucher, error) {
	var result []Voucher
	err := r.db.WithContext(ctx).
		Where("expiry_date >= ?", now).
		Where("id NOT IN (?)", r.db.Model(&Discount{}).Select("voucher_id")).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) GetDiscountByReservationID(ctx context.Context, reservationID uuid.UUID) (*Discount, error) {
	var discount Discount
	err := r.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *repository) GetDiscountByVoucherID(ctx context.Context, voucherID uuid.UUID) (*Discount, error) {
	var discount Discount
	err := r.db.WithContext(ctx).Where("voucher_id = ?", voucherID).First(&discount).Error
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *repository) ApplyDiscount(ctx context.Context, discount *Discount, reservation *reservations.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(discount).Error; err != nil {
			return err
		}
		return tx.Save(reservation).Error
	})
}
