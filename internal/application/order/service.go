package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/membership/fulfillment/internal/domain/order"
	"github.com/membership/fulfillment/internal/domain/shared"
)

// Service orchestrates order fulfillment: it validates the user against the
// membership service, reserves stock line by line against the remote catalog,
// persists the aggregate and unwinds partial reservations when a later step
// fails. There is no distributed transaction; the partial-failure contract is
// reverse-order, best-effort compensation.
type Service struct {
	orders      order.Repository
	users       UserDirectoryClient
	coordinator *StockReservationCoordinator
	metrics     MetricsSink
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	logger      *zap.Logger
}

// NewService creates the order fulfillment service
func NewService(
	orders order.Repository,
	users UserDirectoryClient,
	coordinator *StockReservationCoordinator,
	metrics MetricsSink,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orders:      orders,
		users:       users,
		coordinator: coordinator,
		metrics:     metrics,
		logger:      logger,
	}
}

// SetIdempotencyStore enables duplicate-request suppression for Create.
// Requests carrying an idempotency key already seen within ttl are rejected
// with CONFLICT instead of creating a second order.
func (s *Service) SetIdempotencyStore(store shared.IdempotencyStore, ttl time.Duration) {
	s.idempotency = store
	s.idemTTL = ttl
}

// Create creates an order. Validation failures happen before any side effect;
// downstream failures after one or more reservations trigger compensation of
// the reserved prefix in reverse order, and the original failure is returned.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	marked := false
	if s.idempotency != nil && req.IdempotencyKey != "" {
		fresh, err := s.idempotency.MarkProcessed(ctx, req.IdempotencyKey, s.idemTTL)
		switch {
		case err != nil:
			// The store is an optional safety net; losing it must not block orders.
			s.logger.Warn("idempotency store unavailable, proceeding without duplicate check",
				zap.Error(err))
		case !fresh:
			return nil, shared.NewDomainError(shared.CodeConflict,
				"Duplicate request: an order with this idempotency key was already accepted")
		default:
			marked = true
		}
	}

	// The key stays consumed only if an order was actually persisted. Marking
	// happens before any work so concurrent duplicates are suppressed, but a
	// failed create must remain retryable with the same key.
	persisted := false
	defer func() {
		if marked && !persisted {
			s.releaseIdempotencyKey(ctx, req.IdempotencyKey)
		}
	}()

	exists, err := s.users.Exists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError(shared.CodeUserNotFound,
			fmt.Sprintf("User not found: %s", req.UserID))
	}

	o, err := order.New(req.UserID, req.ShippingAddress)
	if err != nil {
		return nil, err
	}

	items := make([]ReserveItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ReserveItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	reserved, err := s.coordinator.Reserve(ctx, items)
	if err != nil {
		return nil, err
	}

	for _, r := range reserved {
		if _, err := o.AddLine(r.ProductID, r.ProductName, r.Quantity, r.UnitPrice); err != nil {
			s.coordinator.Compensate(ctx, reserved)
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		// Stock is already deducted; the order write is the last step, so a
		// failed save unwinds the reservations the same way a failed
		// reservation would.
		s.logger.Error("order save failed after successful reservation, compensating",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
		s.coordinator.Compensate(ctx, reserved)
		return nil, shared.NewDomainError(shared.CodeInternal, "Failed to persist order")
	}

	persisted = true

	s.metrics.IncrementOrderStatus(ctx, order.StatusPending)
	s.metrics.AddRevenue(ctx, o.TotalAmount)

	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", o.UserID.String()),
		zap.Int("lines", o.LineCount()),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves all orders
func (s *Service) List(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListByUser retrieves all orders placed by a user
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// ListByStatus retrieves all orders in the given status
func (s *Service) ListByStatus(ctx context.Context, status order.Status) ([]OrderResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError(shared.CodeValidation,
			fmt.Sprintf("Unknown order status: %s", status))
	}
	orders, err := s.orders.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// UpdateStatus moves an order along the status state machine. It performs no
// stock side effects; cancellation with stock restitution is Cancel.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus order.Status) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(newStatus); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, shared.NewDomainError(shared.CodeInternal, "Failed to persist order")
	}

	s.metrics.IncrementOrderStatus(ctx, newStatus)

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels an order and restores its stock. The restitution is best
// effort: per-line failures are logged and recorded, never retried, and do
// not block the cancellation itself.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(); err != nil {
		return nil, err
	}

	s.coordinator.Release(ctx, o.Lines)

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, shared.NewDomainError(shared.CodeInternal, "Failed to persist order")
	}

	s.metrics.IncrementOrderStatus(ctx, order.StatusCancelled)

	s.logger.Info("order cancelled",
		zap.String("order_id", o.ID.String()),
		zap.Int("lines_released", o.LineCount()),
	)

	response := ToOrderResponse(o)
	return &response, nil
}

// Delete removes an order. This is administrative and has no stock effects.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orders.Delete(ctx, id)
}

// releaseIdempotencyKey frees a marked key after a failed create. A failed
// release leaves the key consumed until the TTL expires; that is logged for
// operators but cannot change the error already being returned.
func (s *Service) releaseIdempotencyKey(ctx context.Context, key string) {
	if err := s.idempotency.Release(ctx, key); err != nil {
		s.logger.Warn("failed to release idempotency key after failed create",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
	}
}

func validateCreateRequest(req CreateOrderRequest) error {
	if req.UserID == uuid.Nil {
		return shared.NewDomainError(shared.CodeValidation, "User ID is required")
	}
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return shared.NewDomainError(shared.CodeValidation, "Shipping address cannot be blank")
	}
	if len(req.Items) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "An order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return shared.NewDomainError(shared.CodeValidation, "Product ID is required on every item")
		}
		if item.Quantity < 1 {
			return shared.NewDomainError(shared.CodeValidation, "Item quantity must be at least 1")
		}
	}
	return nil
}
