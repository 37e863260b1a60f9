package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound   = errors.New("payment request not found")
	ErrPaymentNotPending = errors.New("payment request is not pending")
)

type PaymentRequest struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"uniqueIndex;not null"`
	TicketID  uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Amount    int64  `gorm:"not null"` // in öre
	Currency  string `gorm:"not null;default:SEK"`
	Status    string `gorm:"not null;index"`
	TaskIDs   []uint `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment PaymentRequest) (PaymentRequest, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return PaymentRequest{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByReference(ctx context.Context, reference string) (PaymentRequest, error) {
	var payment PaymentRequest

	result := d.db.WithContext(ctx).First(&payment, "reference = ?", reference)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PaymentRequest{}, ErrPaymentNotFound
		}

		return PaymentRequest{}, result.Error
	}

	return payment, nil
}

// MarkStatus transitions a pending payment request to a terminal status.
// The pending guard keeps a replayed callback from flipping an already
// settled request.
func (d *PaymentDAO) MarkStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&PaymentRequest{}).
		Where("id = ? AND status = ?", id, "pending").
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotPending
	}

	return nil
}
