package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/membership/fulfillment/internal/domain/shared"
)

// Line represents a line item in an order. ProductName and UnitPrice are
// snapshots taken from the catalog at creation time; later catalog changes
// never retroactively alter an existing order.
type Line struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)"`
	Subtotal    decimal.Decimal `gorm:"type:numeric(12,2)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewLine creates an order line with the subtotal derived from the snapshot
// price and the requested quantity.
func NewLine(orderID, productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*Line, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product name cannot be empty")
	}
	if quantity < 1 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit price cannot be negative")
	}

	now := time.Now()
	subtotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	return &Line{
		ID:          uuid.New(),
		OrderID:     orderID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Round(2),
		Subtotal:    subtotal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Order is the aggregate root for a customer order. It is created exclusively
// through the fulfillment workflow and mutated only by status transitions.
type Order struct {
	shared.BaseEntity
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderDate       time.Time
	Status          Status          `gorm:"type:varchar(20);not null;index"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2)"`
	ShippingAddress string
	Lines           []Line `gorm:"foreignKey:OrderID"`
}

// TableName maps the aggregate to the orders table
func (Order) TableName() string {
	return "orders"
}

// TableName maps lines to the order_lines table
func (Line) TableName() string {
	return "order_lines"
}

// New creates an order in PENDING status with no lines. Lines are added as
// stock reservations succeed; the order is only persisted once complete.
func New(userID uuid.UUID, shippingAddress string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "User ID cannot be empty")
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Shipping address cannot be blank")
	}

	base := shared.NewBaseEntity()
	return &Order{
		BaseEntity:      base,
		UserID:          userID,
		OrderDate:       base.CreatedAt,
		Status:          StatusPending,
		TotalAmount:     decimal.Zero,
		ShippingAddress: strings.TrimSpace(shippingAddress),
		Lines:           make([]Line, 0),
	}, nil
}

// AddLine appends a line and accumulates its subtotal into the order total
func (o *Order) AddLine(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (*Line, error) {
	line, err := NewLine(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.TotalAmount = o.TotalAmount.Add(line.Subtotal)
	o.UpdatedAt = time.Now()

	return line, nil
}

// TransitionTo moves the order to the target status if the edge is legal
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewDomainError(shared.CodeValidation, fmt.Sprintf("Unknown order status %q", string(target)))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels the order. Delivered orders cannot be cancelled, and
// cancelling twice is an explicit failure rather than a silent no-op.
func (o *Order) Cancel() error {
	if o.Status == StatusDelivered {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Cannot cancel a delivered order")
	}
	if o.Status == StatusCancelled {
		return shared.NewDomainError(shared.CodeInvalidTransition, "Order is already cancelled")
	}

	o.Status = StatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// LineCount returns the number of lines in the order
func (o *Order) LineCount() int {
	return len(o.Lines)
}
