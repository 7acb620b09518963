package sharing

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types shared by every service layer. Handlers translate them to 4xx
// responses with a machine-stable reason string; anything else becomes a 500.

const (
	ErrorTypeNotFound   = "not_found"
	ErrorTypeConflict   = "conflict"
	ErrorTypeValidation = "validation_failed"
	ErrorTypeForbidden  = "forbidden"
)

// NotFoundError signals that a referenced entity id does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
	Message  string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

// NewNotFoundError creates an error for a missing entity.
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewNotFoundMessage creates a not-found error with a custom message.
func NewNotFoundMessage(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// ConflictError signals a uniqueness violation, e.g. a duplicate email.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
	Cause    error
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s with %s %q already exists (caused by: %v)", e.Resource, e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

func (e *ConflictError) Unwrap() error {
	return e.Cause
}

// NewConflictError creates an error for a uniqueness violation.
func NewConflictError(resource, field, value string) *ConflictError {
	return &ConflictError{Resource: resource, Field: field, Value: value}
}

// ValidationError signals a business-rule violation on otherwise
// well-formed input.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (caused by: %v)", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a business-rule validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ForbiddenError signals that the acting user lacks rights over the target.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NewForbiddenError creates an authorization error.
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Type returns the machine-stable reason string for err, or "" when the
// error does not belong to the shared taxonomy.
func Type(err error) string {
	var nf *NotFoundError
	var cf *ConflictError
	var ve *ValidationError
	var fb *ForbiddenError
	switch {
	case errors.As(err, &nf):
		return ErrorTypeNotFound
	case errors.As(err, &cf):
		return ErrorTypeConflict
	case errors.As(err, &ve):
		return ErrorTypeValidation
	case errors.As(err, &fb):
		return ErrorTypeForbidden
	}
	return ""
}

// HTTPStatus maps a taxonomy error to its response code. Errors outside the
// taxonomy are treated as fatal persistence failures.
func HTTPStatus(err error) int {
	switch Type(err) {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
