package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodybuddy/payments/pkg/config"
	"github.com/foodybuddy/payments/pkg/types"
)

func TestSimulatedGateway_Boundaries(t *testing.T) {
	always := NewSimulatedGateway(0, 1.0)
	never := NewSimulatedGateway(0, 0.0)

	for i := 0; i < 50; i++ {
		st, err := always.Decide(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, types.PaymentStatusCompleted, st)

		st, err = never.Decide(context.Background(), nil)
		require.NoError(t, err)
		require.Equal(t, types.PaymentStatusFailed, st)
	}
}

func TestSimulatedGateway_DeterministicDraw(t *testing.T) {
	g := NewSimulatedGateway(0, 0.5)

	g.rand = func() float64 { return 0.49 }
	st, err := g.Decide(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusCompleted, st)

	g.rand = func() float64 { return 0.5 }
	st, err = g.Decide(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusFailed, st)
}

func TestSimulatedGateway_CancelledContext(t *testing.T) {
	g := NewSimulatedGateway(time.Minute, 1.0)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.Decide(ctx, nil)
	require.ErrorIs(t, err, ErrGatewayFailure)
	assert.Less(t, time.Since(start), time.Second, "decide must return as soon as ctx is done")
}

func TestDirectGateway_AlwaysCompletes(t *testing.T) {
	st, err := DirectGateway{}.Decide(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentStatusCompleted, st)
}

func TestNewGateway_PicksImplementation(t *testing.T) {
	sim := NewGateway(testConfig(true, 0.9, time.Millisecond, 0))
	_, ok := sim.(*SimulatedGateway)
	assert.True(t, ok)

	direct := NewGateway(&config.Config{})
	_, ok = direct.(DirectGateway)
	assert.True(t, ok)
}
