package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apporder "github.com/membership/fulfillment/internal/application/order"
	"github.com/membership/fulfillment/internal/domain/shared"
	"github.com/membership/fulfillment/internal/infrastructure/config"
)

// HTTPProductCatalogClient talks to the product catalog service
type HTTPProductCatalogClient struct {
	baseURL string
	caller  *httpCaller
}

// NewHTTPProductCatalogClient creates a client for the product catalog
func NewHTTPProductCatalogClient(cfg config.ClientsConfig, logger *zap.Logger) *HTTPProductCatalogClient {
	if logger != nil {
		logger = logger.Named("catalog")
	}
	return &HTTPProductCatalogClient{
		baseURL: cfg.CatalogBaseURL,
		caller:  newHTTPCaller(cfg, logger),
	}
}

type productPayload struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

type stockAdjustmentPayload struct {
	Delta int `json:"delta"`
}

// GetSnapshot fetches the catalog's current view of a product
func (c *HTTPProductCatalogClient) GetSnapshot(ctx context.Context, productID uuid.UUID) (*apporder.ProductSnapshot, error) {
	url := fmt.Sprintf("%s/api/products/%s", c.baseURL, productID)

	status, body, err := c.caller.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, shared.NewDomainError(shared.CodeCatalogDown,
			"Product catalog unavailable: "+err.Error())
	}

	switch status {
	case http.StatusOK:
		var payload productPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, shared.NewDomainError(shared.CodeCatalogDown,
				"Product catalog returned a malformed product: "+err.Error())
		}
		return &apporder.ProductSnapshot{
			ID:    payload.ID,
			Name:  payload.Name,
			Price: payload.Price,
			Stock: payload.Stock,
		}, nil
	case http.StatusNotFound:
		return nil, shared.NewDomainError(shared.CodeProductNotFound,
			"Product not found: "+productID.String())
	default:
		return nil, shared.NewDomainError(shared.CodeCatalogDown,
			fmt.Sprintf("Product catalog returned unexpected status %d", status))
	}
}

// AdjustStock applies a signed stock delta on the catalog. The catalog
// enforces non-negative stock atomically and answers 409 when the delta
// would drive stock below zero.
func (c *HTTPProductCatalogClient) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	url := fmt.Sprintf("%s/api/products/%s/stock", c.baseURL, productID)

	body, err := json.Marshal(stockAdjustmentPayload{Delta: delta})
	if err != nil {
		return fmt.Errorf("failed to encode stock adjustment: %w", err)
	}

	status, _, err := c.caller.do(ctx, http.MethodPatch, url, body)
	if err != nil {
		return shared.NewDomainError(shared.CodeCatalogDown,
			"Product catalog unavailable: "+err.Error())
	}

	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return shared.NewDomainError(shared.CodeProductNotFound,
			"Product not found: "+productID.String())
	case http.StatusConflict:
		return shared.NewDomainError(shared.CodeInsufficientStock,
			"Insufficient stock for product "+productID.String())
	default:
		return shared.NewDomainError(shared.CodeCatalogDown,
			fmt.Sprintf("Product catalog returned unexpected status %d", status))
	}
}
