package order

import (
	"time"

	"github.com/google/uuid"

	"github.com/membership/fulfillment/internal/domain/order"
)

// CreateOrderItemInput is one requested line in a create-order request
type CreateOrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderRequest carries everything needed to create an order.
// IdempotencyKey is optional; when present, duplicate keys within the
// configured window are rejected rather than creating a second order.
type CreateOrderRequest struct {
	UserID          uuid.UUID
	ShippingAddress string
	Items           []CreateOrderItemInput
	IdempotencyKey  string
}

// LineResponse represents an order line in API responses
type LineResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Subtotal    string `json:"subtotal"`
}

// OrderResponse represents an order in API responses. Amounts are decimal
// strings with two fractional digits.
type OrderResponse struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	OrderDate       time.Time      `json:"order_date"`
	Status          string         `json:"status"`
	TotalAmount     string         `json:"total_amount"`
	ShippingAddress string         `json:"shipping_address"`
	Lines           []LineResponse `json:"lines"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ToOrderResponse maps the aggregate to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	lines := make([]LineResponse, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, LineResponse{
			ID:          line.ID.String(),
			ProductID:   line.ProductID.String(),
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.StringFixed(2),
			Subtotal:    line.Subtotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:              o.ID.String(),
		UserID:          o.UserID.String(),
		OrderDate:       o.OrderDate,
		Status:          o.Status.String(),
		TotalAmount:     o.TotalAmount.StringFixed(2),
		ShippingAddress: o.ShippingAddress,
		Lines:           lines,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses maps a slice of aggregates
func ToOrderResponses(orders []*order.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		responses = append(responses, ToOrderResponse(o))
	}
	return responses
}
