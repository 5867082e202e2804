package telemetry

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/membership/fulfillment/internal/domain/order"
)

// OrderMetrics tracks order lifecycle counters, cumulative revenue and
// failed stock compensations. It satisfies the orchestrator's MetricsSink
// and CompensationRecorder ports and is safe for concurrent use.
type OrderMetrics struct {
	logger *zap.Logger

	statusTotal          *Counter
	revenueGauge         *FloatGauge
	compensationFailures *Counter

	// revenue accumulates across requests; the gauge reports the running sum
	mu      sync.Mutex
	revenue decimal.Decimal
}

// NewOrderMetrics creates order metrics on the given meter
func NewOrderMetrics(meter metric.Meter, logger *zap.Logger) (*OrderMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	statusTotal, err := NewCounter(meter,
		"fulfillment.orders.status.total",
		"Number of orders entering each status",
		"{order}")
	if err != nil {
		return nil, err
	}

	revenueGauge, err := NewFloatGauge(meter,
		"fulfillment.orders.revenue",
		"Cumulative revenue of accepted orders",
		"{currency_unit}")
	if err != nil {
		return nil, err
	}

	compensationFailures, err := NewCounter(meter,
		"fulfillment.stock.compensation.failures.total",
		"Number of stock restitutions that failed and need manual reconciliation",
		"{adjustment}")
	if err != nil {
		return nil, err
	}

	return &OrderMetrics{
		logger:               logger,
		statusTotal:          statusTotal,
		revenueGauge:         revenueGauge,
		compensationFailures: compensationFailures,
		revenue:              decimal.Zero,
	}, nil
}

// IncrementOrderStatus counts an order entering the given status
func (m *OrderMetrics) IncrementOrderStatus(ctx context.Context, status order.Status) {
	m.statusTotal.Inc(ctx, attribute.String("status", status.String()))
}

// AddRevenue adds an accepted order's total to the running revenue sum
func (m *OrderMetrics) AddRevenue(ctx context.Context, amount decimal.Decimal) {
	m.mu.Lock()
	m.revenue = m.revenue.Add(amount)
	total, _ := m.revenue.Float64()
	m.mu.Unlock()

	m.revenueGauge.Record(ctx, total)
}

// Revenue returns the running revenue sum
func (m *OrderMetrics) Revenue() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revenue
}

// RecordCompensationFailure counts a failed stock restitution
func (m *OrderMetrics) RecordCompensationFailure(ctx context.Context, productID uuid.UUID, quantity int) {
	m.compensationFailures.Inc(ctx, attribute.String("product_id", productID.String()))
	m.logger.Warn("stock compensation failure recorded",
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity),
	)
}
