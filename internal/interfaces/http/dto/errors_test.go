package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/membership/fulfillment/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeUserNotFound, http.StatusNotFound},
		{shared.CodeProductNotFound, http.StatusNotFound},
		{shared.CodeOrderNotFound, http.StatusNotFound},
		{shared.CodeInsufficientStock, http.StatusUnprocessableEntity},
		{shared.CodeInvalidTransition, http.StatusUnprocessableEntity},
		{shared.CodeCatalogDown, http.StatusServiceUnavailable},
		{shared.CodeUserDirectoryDown, http.StatusServiceUnavailable},
		{shared.CodeConflict, http.StatusConflict},
		{shared.CodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetHTTPStatus(tt.code), "code %s", tt.code)
	}
}
