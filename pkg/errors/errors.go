package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Common application errors
var (
	ErrUnauthenticated = NewUnauthenticatedError("authentication required")
	ErrForbidden       = NewForbiddenError("forbidden")
	ErrUserNotFound    = NewNotFoundError("user", "User not found")
	ErrRecordNotFound  = NewNotFoundError("record", "Book not found")
	ErrDuplicateUser   = NewAlreadyExistsError("user", "User already exists")
	ErrInternal        = NewInternalError("internal server error", nil)
)

// FieldError describes a single field that failed validation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError creates a new validation error for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: message}},
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, ", "))
}

// HasField reports whether the named field is among the failures
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns the machine-readable error code
func (e *ValidationError) Code() string {
	return "validation_error"
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// Code returns the machine-readable error code
func (e *NotFoundError) Code() string {
	return "not_found"
}

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error.
// Duplicate signups are reported as a bad request, not a conflict.
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusBadRequest
}

// Code returns the machine-readable error code
func (e *AlreadyExistsError) Code() string {
	return "already_exists"
}

// UnauthenticatedError is returned when a request carries no usable identity
type UnauthenticatedError struct {
	Message string
}

// NewUnauthenticatedError creates a new unauthenticated error
func NewUnauthenticatedError(message string) *UnauthenticatedError {
	return &UnauthenticatedError{Message: message}
}

// Error implements the error interface
func (e *UnauthenticatedError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *UnauthenticatedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// Code returns the machine-readable error code
func (e *UnauthenticatedError) Code() string {
	return "unauthorized"
}

// ForbiddenError is returned when the caller is known but not the owner
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *ForbiddenError) HTTPStatus() int {
	return http.StatusForbidden
}

// Code returns the machine-readable error code
func (e *ForbiddenError) Code() string {
	return "forbidden"
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// Code returns the machine-readable error code
func (e *InternalError) Code() string {
	return "internal_error"
}

// HTTPStatuser is implemented by errors that map onto an HTTP response
type HTTPStatuser interface {
	error
	HTTPStatus() int
	Code() string
}

// AsHTTPStatuser finds the first error in err's chain that maps onto an HTTP response.
func AsHTTPStatuser(err error) (HTTPStatuser, bool) {
	var s HTTPStatuser
	if stderrors.As(err, &s) {
		return s, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var e *NotFoundError
	return stderrors.As(err, &e)
}

// IsAlreadyExists reports whether err is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var e *AlreadyExistsError
	return stderrors.As(err, &e)
}

// IsUnauthenticated reports whether err is an UnauthenticatedError
func IsUnauthenticated(err error) bool {
	var e *UnauthenticatedError
	return stderrors.As(err, &e)
}

// IsForbidden reports whether err is a ForbiddenError
func IsForbidden(err error) bool {
	var e *ForbiddenError
	return stderrors.As(err, &e)
}

// AsValidation returns the ValidationError in err's chain, if any
func AsValidation(err error) (*ValidationError, bool) {
	var e *ValidationError
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}
