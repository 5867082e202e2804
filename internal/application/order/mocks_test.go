package order

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/membership/fulfillment/internal/domain/order"
	"github.com/membership/fulfillment/internal/domain/shared"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockCatalog records every stock adjustment in call order so tests can
// assert the reverse-order compensation contract.
type MockCatalog struct {
	mock.Mock

	adjustments []stockAdjustment
}

type stockAdjustment struct {
	ProductID uuid.UUID
	Delta     int
}

func (m *MockCatalog) GetSnapshot(ctx context.Context, productID uuid.UUID) (*ProductSnapshot, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProductSnapshot), args.Error(1)
}

func (m *MockCatalog) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	m.adjustments = append(m.adjustments, stockAdjustment{ProductID: productID, Delta: delta})
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

type MockMetricsSink struct {
	mock.Mock
}

func (m *MockMetricsSink) IncrementOrderStatus(ctx context.Context, status order.Status) {
	m.Called(ctx, status)
}

func (m *MockMetricsSink) AddRevenue(ctx context.Context, amount decimal.Decimal) {
	m.Called(ctx, amount)
}

type MockCompensationRecorder struct {
	mock.Mock
}

func (m *MockCompensationRecorder) RecordCompensationFailure(ctx context.Context, productID uuid.UUID, quantity int) {
	m.Called(ctx, productID, quantity)
}

type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
}
