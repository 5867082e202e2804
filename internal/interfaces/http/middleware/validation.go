package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/membership/fulfillment/internal/domain/order"
)

// SetupValidator configures the gin binding validator with custom tags.
// Field names in validation errors use the JSON tag, and the order_status
// tag accepts any of the known order statuses, case-insensitively.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
		_, ok := order.ParseStatus(fl.Field().String())
		return ok
	})
}

// ValidationMessage renders a single validation error as a human-readable
// sentence. Unknown tags fall back to naming the failed rule.
func ValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "uuid":
		return e.Field() + " must be a valid UUID"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "order_status":
		return e.Field() + " must be one of " + strings.Join(statusNames(), ", ")
	default:
		return e.Field() + " failed validation rule " + e.Tag()
	}
}

// FirstValidationMessage extracts a message for the first validation failure,
// or returns the error text unchanged when err is not a validation error.
func FirstValidationMessage(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return ValidationMessage(errs[0])
	}
	return "Invalid request payload"
}

func statusNames() []string {
	statuses := order.AllStatuses()
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return names
}
