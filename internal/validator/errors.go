package validator

import (
	"github.com/skillforge/course-service/internal/errors"
)

// Shared validation error types from the errors package.
type ValidationError = errors.ValidationError
type ValidationErrors = errors.ValidationErrors

// ToValidationErrors converts validator.ValidationErrors to our custom type.
func ToValidationErrors(err error) ValidationErrors {
	return errors.ToValidationErrors(err)
}
