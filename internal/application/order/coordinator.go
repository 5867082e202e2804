package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/membership/fulfillment/internal/domain/order"
	"github.com/membership/fulfillment/internal/domain/shared"
)

// ReserveItem is a single requested line: which product and how many units
type ReserveItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// Reservation records one successful stock decrement together with the
// catalog snapshot taken at reservation time.
type Reservation struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CompensationRecorder is notified whenever a compensating stock adjustment
// fails. Failed compensations are reconciled manually; they never alter the
// error already being returned to the caller.
type CompensationRecorder interface {
	RecordCompensationFailure(ctx context.Context, productID uuid.UUID, quantity int)
}

// StockReservationCoordinator sequentially reserves stock for order lines
// against the remote catalog and can reverse a prefix of those reservations.
// Items are processed in request order; compensation runs in strict reverse
// order of the reservations it undoes.
type StockReservationCoordinator struct {
	catalog  ProductCatalogClient
	recorder CompensationRecorder
	logger   *zap.Logger
}

// NewStockReservationCoordinator creates a coordinator over the given catalog
func NewStockReservationCoordinator(catalog ProductCatalogClient, recorder CompensationRecorder, logger *zap.Logger) *StockReservationCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockReservationCoordinator{
		catalog:  catalog,
		recorder: recorder,
		logger:   logger,
	}
}

// Reserve walks the items in order, snapshots each product and decrements its
// stock. If any step fails after earlier reservations succeeded, the already
// reserved prefix is compensated in reverse order and the original failure is
// returned unchanged. On success the returned reservations carry the
// name/price snapshots to be frozen into order lines.
func (c *StockReservationCoordinator) Reserve(ctx context.Context, items []ReserveItem) ([]Reservation, error) {
	reserved := make([]Reservation, 0, len(items))

	for _, item := range items {
		snapshot, err := c.catalog.GetSnapshot(ctx, item.ProductID)
		if err != nil {
			c.Compensate(ctx, reserved)
			return nil, err
		}

		if snapshot.Stock < item.Quantity {
			c.Compensate(ctx, reserved)
			return nil, shared.NewDomainError(shared.CodeInsufficientStock,
				fmt.Sprintf("Insufficient stock for product %s: have %d, need %d",
					item.ProductID, snapshot.Stock, item.Quantity))
		}

		// The snapshot check above is advisory only: the catalog enforces
		// non-negative stock atomically and answers CONFLICT on a race.
		if err := c.catalog.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			c.Compensate(ctx, reserved)
			return nil, err
		}

		reserved = append(reserved, Reservation{
			ProductID:   snapshot.ID,
			ProductName: snapshot.Name,
			Quantity:    item.Quantity,
			UnitPrice:   snapshot.Price,
		})
	}

	return reserved, nil
}

// Compensate restores stock for reservations in strict reverse order.
// Each restitution is best effort: a failure is logged and recorded for
// manual reconciliation, and the remaining compensations still run.
func (c *StockReservationCoordinator) Compensate(ctx context.Context, reserved []Reservation) {
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		if err := c.catalog.AdjustStock(ctx, r.ProductID, r.Quantity); err != nil {
			c.logger.Error("stock compensation failed",
				zap.String("product_id", r.ProductID.String()),
				zap.Int("quantity", r.Quantity),
				zap.Error(err),
			)
			if c.recorder != nil {
				c.recorder.RecordCompensationFailure(ctx, r.ProductID, r.Quantity)
			}
		}
	}
}

// Release restores stock for the lines of a cancelled order, best effort.
// Per-line failures are logged and recorded but never abort the cancellation.
func (c *StockReservationCoordinator) Release(ctx context.Context, lines []order.Line) {
	for _, line := range lines {
		if err := c.catalog.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			c.logger.Error("stock release failed during cancellation",
				zap.String("order_id", line.OrderID.String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Int("quantity", line.Quantity),
				zap.Error(err),
			)
			if c.recorder != nil {
				c.recorder.RecordCompensationFailure(ctx, line.ProductID, line.Quantity)
			}
		}
	}
}
