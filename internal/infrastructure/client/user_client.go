package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/membership/fulfillment/internal/domain/shared"
	"github.com/membership/fulfillment/internal/infrastructure/config"
)

// HTTPUserDirectoryClient checks user existence against the membership service
type HTTPUserDirectoryClient struct {
	baseURL string
	caller  *httpCaller
}

// NewHTTPUserDirectoryClient creates a client for the membership service
func NewHTTPUserDirectoryClient(cfg config.ClientsConfig, logger *zap.Logger) *HTTPUserDirectoryClient {
	if logger != nil {
		logger = logger.Named("user-directory")
	}
	return &HTTPUserDirectoryClient{
		baseURL: cfg.UserDirectoryBaseURL,
		caller:  newHTTPCaller(cfg, logger),
	}
}

// Exists reports whether the user is known to the membership service.
// A 404 is a definitive "no"; a transport failure or persistent 5xx is an
// unavailability error, never a false negative.
func (c *HTTPUserDirectoryClient) Exists(ctx context.Context, userID uuid.UUID) (bool, error) {
	url := fmt.Sprintf("%s/api/users/%s", c.baseURL, userID)

	status, _, err := c.caller.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, shared.NewDomainError(shared.CodeUserDirectoryDown,
			"User directory unavailable: "+err.Error())
	}

	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, shared.NewDomainError(shared.CodeUserDirectoryDown,
			fmt.Sprintf("User directory returned unexpected status %d", status))
	}
}
