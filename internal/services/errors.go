package services

import (
	"errors"
	"fmt"

	apperrors "github.com/skillforge/course-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrConflict         = errors.New("resource conflict")

	// User specific errors
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already exists")
	ErrInvalidRole    = errors.New("invalid user role")
	ErrWishlistExists = errors.New("course already in wishlist")

	// Course specific errors
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseAccessDenied = errors.New("access denied to course")
	ErrAlreadyRated       = errors.New("course already rated")

	// Enrollment specific errors
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrEnrollmentNotOwned = errors.New("not authorized for this enrollment")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrLessonNotFound     = errors.New("lesson not found in course")
	ErrLessonAlreadyDone  = errors.New("lesson already completed")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrEnrollmentNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrEnrollmentNotOwned)
}

// IsForbidden checks if error represents a role or ownership gate failure
func IsForbidden(err error) bool {
	if errors.Is(err, ErrForbidden) || errors.Is(err, ErrCourseAccessDenied) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrLessonNotFound) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrAlreadyRated) ||
		errors.Is(err, ErrLessonAlreadyDone) ||
		errors.Is(err, ErrWishlistExists)
}
