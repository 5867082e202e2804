// Package client holds HTTP adapters for the two remote collaborators of the
// fulfillment workflow: the membership service (user lookups) and the product
// catalog (snapshots and stock adjustments).
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/membership/fulfillment/internal/infrastructure/config"
)

const maxResponseSize = 1 << 20 // 1MB

// httpCaller wraps an http.Client with a bounded retry policy. Transport
// errors and 5xx responses are retried with exponential backoff; any 4xx is a
// definitive business answer and is returned to the caller on first sight.
type httpCaller struct {
	client     *http.Client
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

func newHTTPCaller(cfg config.ClientsConfig, logger *zap.Logger) *httpCaller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpCaller{
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		logger:     logger,
	}
}

// do performs the request, retrying on transport errors and 5xx responses.
// The returned body is fully read and the response closed.
func (c *httpCaller) do(ctx context.Context, method, url string, body []byte) (int, []byte, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return 0, nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("request failed",
				zap.String("method", method),
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}

		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
			c.logger.Warn("server error response",
				zap.String("method", method),
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			continue
		}

		return resp.StatusCode, respBody, nil
	}

	return 0, nil, lastErr
}
