package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/tool"
	"github.com/foodybuddy/payments/pkg/types"
)

// GormStore persists payment records in postgres. Every status change writes a
// payment_log row with before/after snapshots in the same DB transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, p *models.Payment) (*models.Payment, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		log := &models.PaymentLog{
			ID:        tool.GenerateUUIDV7(),
			PaymentID: p.PaymentID,
			OrderID:   p.OrderID,
			To:        p.Status,
			After:     datatypes.NewJSONType(p),
		}
		if err := tx.Create(log).Error; err != nil {
			return fmt.Errorf("failed to create payment log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (s *GormStore) FindByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return &p, nil
}

func (s *GormStore) FindByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error) {
	var rows []*models.Payment
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments by order: %w", err)
	}
	return rows, nil
}

func (s *GormStore) FindByStatus(ctx context.Context, status types.PaymentStatus) ([]*models.Payment, error) {
	var rows []*models.Payment
	if err := s.db.WithContext(ctx).Where("status = ?", status).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments by status: %w", err)
	}
	return rows, nil
}

func (s *GormStore) FindAll(ctx context.Context) ([]*models.Payment, error) {
	var rows []*models.Payment
	if err := s.db.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return rows, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, paymentID string, from, to types.PaymentStatus) (*models.Payment, error) {
	var updated models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var before models.Payment
		if err := tx.Where("payment_id = ?", paymentID).First(&before).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrPaymentNotFound, paymentID)
			}
			return fmt.Errorf("failed to load payment: %w", err)
		}

		res := tx.Model(&models.Payment{}).
			Where("payment_id = ? AND status = ?", paymentID, from).
			Updates(map[string]any{"status": to, "updated_at": time.Now()})
		if res.Error != nil {
			return fmt.Errorf("failed to update payment status: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race (or the caller read a stale status).
			return fmt.Errorf("%w: payment %s is %s, expected %s", ErrInvalidTransition, paymentID, before.Status, from)
		}

		if err := tx.Where("payment_id = ?", paymentID).First(&updated).Error; err != nil {
			return fmt.Errorf("failed to reload payment: %w", err)
		}
		log := &models.PaymentLog{
			ID:        tool.GenerateUUIDV7(),
			PaymentID: updated.PaymentID,
			OrderID:   updated.OrderID,
			From:      from,
			To:        to,
			Before:    datatypes.NewJSONType(&before),
			After:     datatypes.NewJSONType(&updated),
		}
		if err := tx.Create(log).Error; err != nil {
			return fmt.Errorf("failed to create payment log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
