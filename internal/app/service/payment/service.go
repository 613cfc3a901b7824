package payment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/config"
	"github.com/foodybuddy/payments/pkg/metrics"
	"github.com/foodybuddy/payments/pkg/tool"
	"github.com/foodybuddy/payments/pkg/types"
)

type ProcessPaymentRequest struct {
	OrderID string `json:"order_id"`
	// AmountCents 支付金额，最小货币单位
	AmountCents int64               `json:"amount_cents"`
	Method      types.PaymentMethod `json:"method"`
}

// Engine drives payment records through their lifecycle. Each operation is
// stateless at the engine level; all mutable state lives in the Store.
type Engine interface {
	ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*models.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*models.Payment, error)
	GetPaymentsByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error)
	GetPaymentsByStatus(ctx context.Context, status types.PaymentStatus) ([]*models.Payment, error)
	GetAllPayments(ctx context.Context) ([]*models.Payment, error)
	RefundPayment(ctx context.Context, paymentID string) (*models.Payment, error)
}

type Service struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	store   Store
	gateway Gateway
	metrics *metrics.Registry
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, store Store, gateway Gateway, m *metrics.Registry) Engine {
	log.Infow("payment engine initialized",
		"simulation_enabled", cfg.Payment.Simulation.Enabled,
		"success_rate", cfg.Payment.Processing.SuccessRate,
		"retry_attempts", cfg.Payment.Processing.RetryAttempts,
	)
	return &Service{cfg: cfg, log: log, store: store, gateway: gateway, metrics: m}
}

func validateProcessRequest(req *ProcessPaymentRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if req.OrderID == "" {
		return fmt.Errorf("%w: order_id is required", ErrInvalidRequest)
	}
	if req.AmountCents < 0 {
		return fmt.Errorf("%w: amount must be >= 0, got %d", ErrInvalidRequest, req.AmountCents)
	}
	if !req.Method.Valid() {
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, req.Method)
	}
	return nil
}

// transition consults the state machine before asking the store to apply the
// change; the store re-checks the source status under its own lock.
func (s *Service) transition(ctx context.Context, p *models.Payment, to types.PaymentStatus) (*models.Payment, error) {
	if !p.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	return s.store.UpdateStatus(ctx, p.PaymentID, p.Status, to)
}

func (s *Service) ProcessPayment(ctx context.Context, req *ProcessPaymentRequest) (*models.Payment, error) {
	if err := validateProcessRequest(req); err != nil {
		return nil, err
	}

	p := &models.Payment{
		PaymentID:     tool.GenerateUUIDV7(),
		OrderID:       req.OrderID,
		AmountCents:   req.AmountCents,
		Method:        req.Method,
		Status:        types.PaymentStatusPending,
		TransactionID: tool.GenerateTransactionID(),
	}
	s.log.Infow("processing payment",
		"payment_id", p.PaymentID, "order_id", p.OrderID,
		"amount_cents", p.AmountCents, "method", p.Method,
	)

	// Write-ahead: the PENDING record is durable before processing starts.
	created, err := s.store.Create(ctx, p)
	if err != nil {
		s.log.Errorw("failed to persist pending payment", "payment_id", p.PaymentID, "err", err)
		return nil, err
	}

	processing, err := s.transition(ctx, created, types.PaymentStatusProcessing)
	if err != nil {
		return nil, err
	}

	outcome := s.decide(ctx, processing)

	final, err := s.transition(ctx, processing, outcome)
	if err != nil {
		return nil, err
	}
	s.metrics.PaymentsProcessed.WithLabelValues(string(final.Status), string(final.Method)).Inc()
	s.log.Infow("payment processed",
		"payment_id", final.PaymentID, "status", final.Status, "transaction_id", final.TransactionID,
	)
	return final, nil
}

// decide invokes the gateway under a per-attempt timeout, retrying gateway
// failures up to the configured attempt budget. A gateway that never answers
// maps to FAILED; processing failures are domain state, not caller errors.
func (s *Service) decide(ctx context.Context, p *models.Payment) types.PaymentStatus {
	attempts := 1 + s.cfg.Payment.Processing.RetryAttempts
	var lastErr error
	for i := 0; i < attempts; i++ {
		start := time.Now()
		actx, cancel := context.WithTimeout(ctx, s.cfg.Payment.Processing.Timeout)
		status, err := s.gateway.Decide(actx, p)
		cancel()
		if err == nil {
			s.metrics.GatewayDecisionMS.WithLabelValues(string(status)).
				Observe(float64(time.Since(start).Milliseconds()))
			return status
		}
		lastErr = err
		s.metrics.GatewayDecisionMS.WithLabelValues("error").
			Observe(float64(time.Since(start).Milliseconds()))
		if ctx.Err() != nil {
			// Parent request is gone; retrying cannot help.
			break
		}
		if i < attempts-1 {
			s.metrics.GatewayRetries.Inc()
			s.log.Warnw("gateway decision failed, retrying",
				"payment_id", p.PaymentID, "attempt", i+1, "err", err)
		}
	}
	s.log.Warnw("gateway decision exhausted, failing payment",
		"payment_id", p.PaymentID, "attempts", attempts, "err", lastErr)
	return types.PaymentStatusFailed
}

func (s *Service) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	return s.store.FindByPaymentID(ctx, paymentID)
}

func (s *Service) GetPaymentsByOrderID(ctx context.Context, orderID string) ([]*models.Payment, error) {
	return s.store.FindByOrderID(ctx, orderID)
}

func (s *Service) GetPaymentsByStatus(ctx context.Context, status types.PaymentStatus) ([]*models.Payment, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidRequest, status)
	}
	return s.store.FindByStatus(ctx, status)
}

func (s *Service) GetAllPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.store.FindAll(ctx)
}

func (s *Service) RefundPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	p, err := s.store.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != types.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: cannot refund payment in status %s", ErrInvalidTransition, p.Status)
	}

	// A concurrent refund that wins the compare-and-swap surfaces here as
	// ErrInvalidTransition for the loser.
	updated, err := s.transition(ctx, p, types.PaymentStatusRefunded)
	if err != nil {
		return nil, err
	}
	s.metrics.PaymentsRefunded.Inc()
	s.log.Infow("payment refunded", "payment_id", updated.PaymentID, "order_id", updated.OrderID)
	return updated, nil
}
