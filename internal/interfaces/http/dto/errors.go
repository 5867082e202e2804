package dto

import (
	"net/http"

	"github.com/membership/fulfillment/internal/domain/shared"
)

// ErrorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Unknown user/product/order are 404s; business rule violations are 422s;
// downstream outages are 503s so callers can distinguish retryable failures.
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:        http.StatusBadRequest,
	shared.CodeUserNotFound:      http.StatusNotFound,
	shared.CodeProductNotFound:   http.StatusNotFound,
	shared.CodeOrderNotFound:     http.StatusNotFound,
	shared.CodeInsufficientStock: http.StatusUnprocessableEntity,
	shared.CodeInvalidTransition: http.StatusUnprocessableEntity,
	shared.CodeCatalogDown:       http.StatusServiceUnavailable,
	shared.CodeUserDirectoryDown: http.StatusServiceUnavailable,
	shared.CodeConflict:          http.StatusConflict,
	shared.CodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Returns 500 Internal Server Error if the error code is not mapped.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
