package payment

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/foodybuddy/payments/internal/models"
	"github.com/foodybuddy/payments/pkg/config"
	"github.com/foodybuddy/payments/pkg/types"
)

// Gateway decides the outcome of a payment attempt. Decide returns COMPLETED
// or FAILED, or an error wrapping ErrGatewayFailure when it could not reach a
// decision (timeout, cancellation). Decide must honor ctx.
type Gateway interface {
	Decide(ctx context.Context, p *models.Payment) (types.PaymentStatus, error)
}

// SimulatedGateway models gateway latency and approves a configured fraction
// of payments. One uniform draw per invocation.
type SimulatedGateway struct {
	delay       time.Duration
	successRate float64
	rand        func() float64
}

func NewSimulatedGateway(delay time.Duration, successRate float64) *SimulatedGateway {
	return &SimulatedGateway{delay: delay, successRate: successRate, rand: rand.Float64}
}

func (g *SimulatedGateway) Decide(ctx context.Context, _ *models.Payment) (types.PaymentStatus, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrGatewayFailure, ctx.Err())
		case <-timer.C:
		}
	}

	// rand() is in [0,1), so rate 1.0 always completes and 0.0 never does.
	if g.rand() < g.successRate {
		return types.PaymentStatusCompleted, nil
	}
	return types.PaymentStatusFailed, nil
}

// DirectGateway stands in for a real gateway integration and approves every
// payment.
type DirectGateway struct{}

func (DirectGateway) Decide(_ context.Context, _ *models.Payment) (types.PaymentStatus, error) {
	return types.PaymentStatusCompleted, nil
}

// NewGateway picks the gateway implementation from configuration.
func NewGateway(cfg *config.Config) Gateway {
	if cfg.Payment.Simulation.Enabled {
		return NewSimulatedGateway(cfg.Payment.Simulation.ProcessingDelay, cfg.Payment.Processing.SuccessRate)
	}
	return DirectGateway{}
}
