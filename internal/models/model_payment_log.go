package models

import (
	"time"

	"github.com/foodybuddy/payments/pkg/types"

	"gorm.io/datatypes"
)

// PaymentLog 支付状态变更日志
// 使用场景：记录每次状态迁移的前后快照，用于问题排查
type PaymentLog struct {
	ID        string              `gorm:"column:id;primary_key;type:uuid"`
	PaymentID string              `gorm:"column:payment_id;type:uuid;not null;index:idx_log_payment_id"`
	OrderID   string              `gorm:"column:order_id;type:varchar(64);not null"`
	From      types.PaymentStatus `gorm:"column:from_status;type:varchar(32)"`
	To        types.PaymentStatus `gorm:"column:to_status;type:varchar(32);not null"`
	// Before 变更前的支付记录，JSON格式存储；创建时为null
	Before datatypes.JSONType[*Payment] `gorm:"column:before;type:jsonb;default:'null'"`
	// After 变更后的支付记录，JSON格式存储
	After     datatypes.JSONType[*Payment] `gorm:"column:after;type:jsonb;default:'null'"`
	CreatedAt time.Time                    `json:"created_at"`
}

func (PaymentLog) TableName() string {
	return "payment_log"
}
