// Package validation provides request validation and custom validators.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/moodshelf/moodshelf/internal/api/response"
)

// validate is a package-level singleton that is safe for concurrent read-only
// access (validate.Struct() is thread-safe). All registrations MUST happen in
// init() only, as RegisterValidation is NOT thread-safe.
var validate *validator.Validate

func init() {
	validate = validator.New()

	if err := validate.RegisterValidation("no_null_bytes", validateNoNullBytes); err != nil {
		slog.Error("Failed to register no_null_bytes validator", "error", err)
	}
}

// ValidateStruct validates a struct using go-playground/validator
// Returns validation errors formatted as RFC 7807 Problem Details.
func ValidateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationErrors(err)
	}

	return nil
}

// formatValidationErrors converts validator errors to a formatted error message
// that can be used in RFC 7807 Problem Details responses.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		messages := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			messages = append(messages, formatFieldError(fieldError))
		}

		return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
	}

	return err
}

// formatFieldError formats a single field validation error.
func formatFieldError(fieldError validator.FieldError) string {
	field := fieldError.Field()
	tag := fieldError.Tag()

	switch tag {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fieldError.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fieldError.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fieldError.Param())
	case "no_null_bytes":
		return field + " must not contain NULL bytes"
	default:
		return field + " is invalid"
	}
}

// GetValidationErrorDetails extracts field-level error details from validation errors
// Returns a slice of ErrorDetail for RFC 7807 Problem Details.
func GetValidationErrorDetails(err error) []response.ErrorDetail {
	var details []response.ErrorDetail

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			details = append(details, response.ErrorDetail{
				Location: fieldError.Field(),
				Message:  formatFieldError(fieldError),
				Value:    fieldError.Value(),
			})
		}
	}

	return details
}

// RespondValidationError writes a validation error response with RFC 7807 Problem Details.
func RespondValidationError(w http.ResponseWriter, err error) {
	details := GetValidationErrorDetails(err)

	problem := response.ProblemDetails{
		Type:   "about:blank",
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: err.Error(),
		Errors: details,
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(http.StatusBadRequest)

	if err := json.NewEncoder(w).Encode(problem); err != nil {
		slog.Error("Failed to encode validation error response", "error", err)
	}
}

// validateNoNullBytes checks that a string field does not contain NULL bytes
// Handles both string and *string types.
func validateNoNullBytes(fl validator.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}

		field = field.Elem()
	}

	if field.Kind() != reflect.String {
		return true
	}

	return !strings.Contains(field.String(), "\x00")
}
