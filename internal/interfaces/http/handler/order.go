package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	orderapp "github.com/membership/fulfillment/internal/application/order"
	"github.com/membership/fulfillment/internal/domain/order"
	"github.com/membership/fulfillment/internal/interfaces/http/middleware"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	service *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *orderapp.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes on the given router group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.GET("/user/:userId", h.ListByUser)
		orders.GET("/status/:status", h.ListByStatus)
		orders.PUT("/:id/status", h.UpdateStatus)
		orders.PATCH("/:id/cancel", h.Cancel)
		orders.DELETE("/:id", h.Delete)
	}
}

// CreateOrderRequest is the request body for creating an order
type CreateOrderRequest struct {
	UserID          string                 `json:"user_id" binding:"required,uuid"`
	ShippingAddress string                 `json:"shipping_address" binding:"required,min=1,max=500"`
	Items           []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// CreateOrderItemInput is one requested line in the create request
type CreateOrderItemInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// UpdateStatusRequest is the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FirstValidationMessage(err))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	items := make([]orderapp.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID: "+item.ProductID)
			return
		}
		items = append(items, orderapp.CreateOrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	resp, err := h.service.Create(c.Request.Context(), orderapp.CreateOrderRequest{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		Items:           items,
		IdempotencyKey:  c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByUser handles GET /orders/user/:userId
func (h *OrderHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	orders, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, orders)
}

// ListByStatus handles GET /orders/status/:status
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	status, ok := order.ParseStatus(c.Param("status"))
	if !ok {
		h.BadRequest(c, "Unknown order status: "+c.Param("status"))
		return
	}

	orders, err := h.service.ListByStatus(c.Request.Context(), status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, orders)
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, middleware.FirstValidationMessage(err))
		return
	}

	status, ok := order.ParseStatus(req.Status)
	if !ok {
		h.BadRequest(c, "Unknown order status: "+req.Status)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles PATCH /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
