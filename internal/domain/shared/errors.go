package shared

// DomainError represents a domain-level error with a stable code
// that callers can branch on without parsing messages.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes used across the fulfillment service
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeCatalogDown       = "CATALOG_UNAVAILABLE"
	CodeUserDirectoryDown = "USER_DIRECTORY_UNAVAILABLE"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL"
)

// Common domain errors
var (
	ErrOrderNotFound     = NewDomainError(CodeOrderNotFound, "Order not found")
	ErrInsufficientStock = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrConflict          = NewDomainError(CodeConflict, "Resource conflict")
)
