package models

import (
	"time"

	"github.com/foodybuddy/payments/pkg/types"
)

// Payment 订单支付记录
// One row per payment attempt; retries against the same order create new rows.
type Payment struct {
	// ID internal identity, assigned by the store on first save.
	ID int64 `gorm:"column:id;primary_key;autoIncrement" json:"id"`
	// PaymentID 对外支付ID，创建后不可变
	PaymentID string `gorm:"column:payment_id;type:uuid;not null;uniqueIndex:unique_payment_id" json:"payment_id"`
	OrderID   string `gorm:"column:order_id;type:varchar(64);not null;index:idx_order_id" json:"order_id"`
	// AmountCents 支付金额，单位为最小货币单位（分）
	AmountCents int64               `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`
	Method      types.PaymentMethod `gorm:"column:method;type:varchar(32);not null" json:"method"`
	Status      types.PaymentStatus `gorm:"column:status;type:varchar(32);not null;index:idx_status" json:"status"`
	// TransactionID 网关侧交易ID，离开PENDING后必定非空
	TransactionID string    `gorm:"column:transaction_id;type:varchar(64)" json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payment"
}

// CanTransitionTo delegates to the status state machine.
func (p *Payment) CanTransitionTo(target types.PaymentStatus) bool {
	if p == nil {
		return false
	}
	return p.Status.CanTransitionTo(target)
}

// Clone returns a shallow copy. Stores hand out clones so callers never alias
// persisted state.
func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
