package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the durable store for the Order aggregate. Save persists the
// order together with its lines atomically; it is not coupled transactionally
// to any remote stock mutation.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)
	FindByStatus(ctx context.Context, status Status) ([]*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
