package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/config"
	"github.com/foodybuddy/payments/pkg/metrics"
	"github.com/foodybuddy/payments/pkg/tool"
	"github.com/foodybuddy/payments/pkg/types"
)

func testConfig(simEnabled bool, successRate float64, delay time.Duration, retries int) *config.Config {
	return &config.Config{
		Payment: config.PaymentConfig{
			Processing: config.ProcessingConfig{
				Timeout:       time.Second,
				RetryAttempts: retries,
				SuccessRate:   successRate,
			},
			Simulation: config.SimulationConfig{
				Enabled:         simEnabled,
				ProcessingDelay: delay,
			},
		},
	}
}

func newTestService(cfg *config.Config, store Store, gw Gateway) Engine {
	if gw == nil {
		gw = NewGateway(cfg)
	}
	return NewService(cfg, zap.NewNop().Sugar(), store, gw, metrics.NewRegistry("test"))
}

// stubGateway errors for the first `failures` calls, then returns outcome.
type stubGateway struct {
	calls    atomic.Int32
	failures int32
	outcome  types.PaymentStatus
}

func (g *stubGateway) Decide(_ context.Context, _ *models.Payment) (types.PaymentStatus, error) {
	if g.calls.Add(1) <= g.failures {
		return "", fmt.Errorf("%w: gateway unreachable", ErrGatewayFailure)
	}
	return g.outcome, nil
}

func processReq(orderID string) *ProcessPaymentRequest {
	return &ProcessPaymentRequest{OrderID: orderID, AmountCents: 4250, Method: types.PaymentMethodPaypal}
}

func TestProcessPayment_DirectModeCompletes(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	p, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusCompleted, p.Status)
	assert.Equal(t, "O-1", p.OrderID)
	assert.Equal(t, int64(4250), p.AmountCents)
	assert.Equal(t, types.PaymentMethodPaypal, p.Method)
	assert.NotEmpty(t, p.PaymentID)
	assert.True(t, strings.HasPrefix(p.TransactionID, "TXN_"))
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())
}

func TestProcessPayment_SuccessRateBoundaries(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want types.PaymentStatus
	}{
		{name: "rate 1.0 always completes", rate: 1.0, want: types.PaymentStatusCompleted},
		{name: "rate 0.0 always fails", rate: 0.0, want: types.PaymentStatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(testConfig(true, tt.rate, 0, 0), NewMemoryStore(), nil)
			for i := 0; i < 20; i++ {
				p, err := svc.ProcessPayment(context.Background(), processReq("O-rate"))
				require.NoError(t, err)
				require.Equal(t, tt.want, p.Status)
			}
		})
	}
}

func TestProcessPayment_InvalidRequest(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(testConfig(false, 0, 0, 0), store, nil)

	tests := []struct {
		name string
		req  *ProcessPaymentRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing order id", req: &ProcessPaymentRequest{AmountCents: 100, Method: types.PaymentMethodCash}},
		{name: "negative amount", req: &ProcessPaymentRequest{OrderID: "O-1", AmountCents: -1, Method: types.PaymentMethodCash}},
		{name: "unknown method", req: &ProcessPaymentRequest{OrderID: "O-1", AmountCents: 100, Method: "BITCOIN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessPayment(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}

	// nothing was persisted
	all, err := store.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestProcessPayment_DistinctIdentifiers(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	a, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)
	b, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)

	assert.NotEqual(t, a.PaymentID, b.PaymentID)
	assert.NotEqual(t, a.TransactionID, b.TransactionID)
}

func TestProcessPayment_GatewayFailureMapsToFailed(t *testing.T) {
	gw := &stubGateway{failures: 100}
	svc := newTestService(testConfig(true, 1.0, 0, 2), NewMemoryStore(), gw)

	p, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err, "gateway failure is domain state, not a caller error")
	assert.Equal(t, types.PaymentStatusFailed, p.Status)
	assert.EqualValues(t, 3, gw.calls.Load(), "one attempt plus two retries")
}

func TestProcessPayment_RetrySucceedsAfterFailures(t *testing.T) {
	gw := &stubGateway{failures: 2, outcome: types.PaymentStatusCompleted}
	svc := newTestService(testConfig(true, 1.0, 0, 3), NewMemoryStore(), gw)

	p, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusCompleted, p.Status)
	assert.EqualValues(t, 3, gw.calls.Load())
}

func TestGetPayment_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(testConfig(false, 0, 0, 0), store, nil)

	created, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)

	got, err := svc.GetPayment(context.Background(), created.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, created.PaymentID, got.PaymentID)
	assert.Equal(t, created.OrderID, got.OrderID)
	assert.Equal(t, created.AmountCents, got.AmountCents)
	assert.Equal(t, created.Method, got.Method)
	assert.Equal(t, created.Status, got.Status)
	assert.Equal(t, created.TransactionID, got.TransactionID)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(created.UpdatedAt))
}

func TestGetPayment_NotFound(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	_, err := svc.GetPayment(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestGetPaymentsByOrderID_EmptyIsNotAnError(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	ps, err := svc.GetPaymentsByOrderID(context.Background(), "O-unknown")
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestGetPaymentsByOrderID_ReturnsAllAttempts(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	first, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)
	second, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)
	_, err = svc.ProcessPayment(context.Background(), processReq("O-2"))
	require.NoError(t, err)

	ps, err := svc.GetPaymentsByOrderID(context.Background(), "O-1")
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, first.PaymentID, ps[0].PaymentID, "insertion order")
	assert.Equal(t, second.PaymentID, ps[1].PaymentID)
}

func TestGetPaymentsByStatus(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	p, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)

	completed, err := svc.GetPaymentsByStatus(context.Background(), types.PaymentStatusCompleted)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, p.PaymentID, completed[0].PaymentID)

	failed, err := svc.GetPaymentsByStatus(context.Background(), types.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Empty(t, failed)

	_, err = svc.GetPaymentsByStatus(context.Background(), "bogus")
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetAllPayments(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	all, err := svc.GetAllPayments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	for i := 0; i < 3; i++ {
		_, err := svc.ProcessPayment(context.Background(), processReq(fmt.Sprintf("O-%d", i)))
		require.NoError(t, err)
	}
	all, err = svc.GetAllPayments(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRefundPayment_Lifecycle(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	created, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusCompleted, created.Status)

	refunded, err := svc.RefundPayment(context.Background(), created.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusRefunded, refunded.Status)
	assert.Equal(t, created.AmountCents, refunded.AmountCents)
	assert.Equal(t, created.TransactionID, refunded.TransactionID)
	assert.Equal(t, created.OrderID, refunded.OrderID)

	// second refund on the same id must be rejected
	_, err = svc.RefundPayment(context.Background(), created.PaymentID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRefundPayment_NotFound(t *testing.T) {
	svc := newTestService(testConfig(false, 0, 0, 0), NewMemoryStore(), nil)

	_, err := svc.RefundPayment(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestRefundPayment_GuardRejectsEveryNonCompletedStatus(t *testing.T) {
	for _, status := range types.AllPaymentStatuses() {
		if status == types.PaymentStatusCompleted {
			continue
		}
		t.Run(string(status), func(t *testing.T) {
			store := NewMemoryStore()
			svc := newTestService(testConfig(false, 0, 0, 0), store, nil)

			seeded, err := store.Create(context.Background(), &models.Payment{
				PaymentID:     tool.GenerateUUIDV7(),
				OrderID:       "O-1",
				AmountCents:   100,
				Method:        types.PaymentMethodCash,
				Status:        status,
				TransactionID: tool.GenerateTransactionID(),
			})
			require.NoError(t, err)

			_, err = svc.RefundPayment(context.Background(), seeded.PaymentID)
			require.ErrorIs(t, err, ErrInvalidTransition)

			// record unchanged
			got, err := store.FindByPaymentID(context.Background(), seeded.PaymentID)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
		})
	}
}

func TestRefundPayment_ConcurrentSingleWinner(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(testConfig(false, 0, 0, 0), store, nil)

	created, err := svc.ProcessPayment(context.Background(), processReq("O-1"))
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RefundPayment(context.Background(), created.PaymentID)
			if err == nil {
				succeeded.Add(1)
			} else if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("unexpected refund error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, succeeded.Load(), "exactly one concurrent refund may win")

	got, err := store.FindByPaymentID(context.Background(), created.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusRefunded, got.Status)
}
