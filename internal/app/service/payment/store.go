package payment

import (
	"context"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/types"
)

// Store is the durable repository for payment records. Implementations must
// be safe for concurrent use; the engine holds no record state of its own.
type Store interface {
	// Create persists a new record and assigns its internal identity.
	Create(ctx context.Context, p *models.Payment) (*models.Payment, error)
	// FindByPaymentID returns ErrPaymentNotFound when no record exists.
	FindByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error)
	// FindByOrderID returns records in insertion order; empty slice when none.
	FindByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error)
	FindByStatus(ctx context.Context, status types.PaymentStatus) ([]*models.Payment, error)
	FindAll(ctx context.Context) ([]*models.Payment, error)
	// UpdateStatus applies from->to as a compare-and-swap on the stored status
	// and refreshes updated_at. It returns ErrPaymentNotFound for unknown ids
	// and ErrInvalidTransition when the stored status no longer matches from,
	// so two racing refunds can never both succeed.
	UpdateStatus(ctx context.Context, paymentID string, from, to types.PaymentStatus) (*models.Payment, error)
}
