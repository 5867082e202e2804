package telemetry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"

	"github.com/membership/fulfillment/internal/domain/order"
	"github.com/membership/fulfillment/internal/infrastructure/telemetry"
)

func newTestOrderMetrics(t *testing.T) *telemetry.OrderMetrics {
	t.Helper()
	meter := noop.NewMeterProvider().Meter("test")
	m, err := telemetry.NewOrderMetrics(meter, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestOrderMetrics_RevenueAccumulates(t *testing.T) {
	m := newTestOrderMetrics(t)
	ctx := context.Background()

	m.AddRevenue(ctx, decimal.RequireFromString("99.80"))
	m.AddRevenue(ctx, decimal.RequireFromString("19.90"))

	assert.Equal(t, "119.70", m.Revenue().StringFixed(2))
}

func TestOrderMetrics_RevenueIsConcurrencySafe(t *testing.T) {
	m := newTestOrderMetrics(t)
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AddRevenue(ctx, decimal.RequireFromString("1.50"))
		}()
	}
	wg.Wait()

	assert.Equal(t, "75.00", m.Revenue().StringFixed(2))
}

func TestOrderMetrics_CountersDoNotPanic(t *testing.T) {
	m := newTestOrderMetrics(t)
	ctx := context.Background()

	for _, status := range order.AllStatuses() {
		m.IncrementOrderStatus(ctx, status)
	}
	m.RecordCompensationFailure(ctx, uuid.New(), 3)
}

func TestNewMeterProvider_DisabledUsesNoop(t *testing.T) {
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled: false,
	}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	require.NoError(t, mp.Shutdown(context.Background()))
	require.NoError(t, mp.ForceFlush(context.Background()))
}
