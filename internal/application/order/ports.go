package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/membership/fulfillment/internal/domain/order"
)

// ProductSnapshot is the catalog's view of a product at a point in time.
// Name and Price are copied into order lines on reservation; the snapshot is
// never consulted again for an existing order.
type ProductSnapshot struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Stock int
}

// UserDirectoryClient answers whether a user exists in the membership service.
// A transport failure surfaces as a USER_DIRECTORY_UNAVAILABLE domain error,
// never as a false "does not exist".
type UserDirectoryClient interface {
	Exists(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ProductCatalogClient is the remote catalog the orchestrator does not control.
// AdjustStock must be atomic and self-guarding server-side: the catalog
// rejects with CONFLICT when the resulting stock would go negative, which is
// what closes the snapshot check-then-act race.
type ProductCatalogClient interface {
	GetSnapshot(ctx context.Context, productID uuid.UUID) (*ProductSnapshot, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error
}

// MetricsSink receives order counters and revenue. Implementations must be
// safe for concurrent use; the orchestrator has no other shared state.
type MetricsSink interface {
	IncrementOrderStatus(ctx context.Context, status order.Status)
	AddRevenue(ctx context.Context, amount decimal.Decimal)
}
