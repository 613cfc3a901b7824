package types

type PaymentStatus string

const (
	// PaymentStatusPending 支付已创建，等待处理
	PaymentStatusPending PaymentStatus = "PENDING"
	// PaymentStatusProcessing 支付网关处理中
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	// PaymentStatusCompleted 支付成功
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	// PaymentStatusFailed 支付失败
	PaymentStatusFailed PaymentStatus = "FAILED"
	// PaymentStatusRefunded 已退款
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
	// PaymentStatusCancelled 已取消
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

var allPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusProcessing,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusRefunded,
	PaymentStatusCancelled,
}

func AllPaymentStatuses() []PaymentStatus {
	return allPaymentStatuses
}

func (s PaymentStatus) Valid() bool {
	for _, v := range allPaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to target is a legal edge of the
// payment lifecycle. It is pure; every status mutation must consult it first.
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return target == PaymentStatusProcessing || target == PaymentStatusCancelled
	case PaymentStatusProcessing:
		return target == PaymentStatusCompleted || target == PaymentStatusFailed || target == PaymentStatusCancelled
	case PaymentStatusCompleted:
		return target == PaymentStatusRefunded
	default:
		// FAILED, CANCELLED and REFUNDED are terminal.
		return false
	}
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	default:
		return false
	}
}
