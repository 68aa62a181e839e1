package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeCredentials    ErrorType = "CREDENTIALS_ERROR"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorization  ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeConflict       ErrorType = "CONFLICT_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource conflict")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User-facing messages
const (
	MsgServerError        = "Server error"
	MsgInvalidCredentials = "Invalid Credentials"
	MsgNotAuthorized      = "User not authorized"
	MsgNoToken            = "No token, authorization denied"
	MsgInvalidToken       = "Token is not valid"
)

// AppError represents a custom application error with context
type AppError struct {
	Type     ErrorType              `json:"type"`
	Message  string                 `json:"message"`
	HTTPCode int                    `json:"-"`
	Details  map[string]interface{} `json:"details,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// Body returns the JSON payload sent to clients for this error.
// Validation, conflict and credential failures use the {"errors":[...]} list shape,
// everything else a single {"msg": ...}.
func (e *AppError) Body() interface{} {
	switch e.Type {
	case ErrorTypeValidation, ErrorTypeConflict, ErrorTypeCredentials:
		if list, ok := e.Details["errors"].([]ValidationError); ok && len(list) > 0 {
			return ErrorList{Errors: list}
		}
		return ErrorList{Errors: []ValidationError{{Message: e.Message}}}
	default:
		return MessageBody{Message: e.Message}
	}
}

// MessageBody is the {"msg": "..."} response shape
type MessageBody struct {
	Message string `json:"msg"`
}

// ErrorList is the {"errors": [...]} response shape
type ErrorList struct {
	Errors []ValidationError `json:"errors"`
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest).WithCause(ErrInvalidInput)
}

// NewCredentialsError creates the generic login failure. Unknown email and wrong
// password must be indistinguishable.
func NewCredentialsError() *AppError {
	return NewAppError(ErrorTypeCredentials, MsgInvalidCredentials, http.StatusBadRequest).WithCause(ErrInvalidCredentials)
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusUnauthorized).WithCause(ErrUnauthorized)
}

// NewAuthorizationError creates an authorization error. Ownership failures are
// reported as 401 to match the public API.
func NewAuthorizationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message, http.StatusUnauthorized).WithCause(ErrForbidden)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound).WithCause(ErrNotFound)
}

// NewConflictError creates a conflict error. Duplicate registrations are a 400.
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message, http.StatusBadRequest).WithCause(ErrConflict)
}

// ValidationError is one field-level failure
type ValidationError struct {
	Message  string      `json:"msg"`
	Param    string      `json:"param,omitempty"`
	Value    interface{} `json:"value,omitempty"`
	Location string      `json:"location,omitempty"`
}

// ValidationErrors represents a collection of validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", ve.Errors[0].Message)
}

// NewValidationErrors creates a new validation errors instance
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]ValidationError, 0),
	}
}

// Add adds a validation error for a body field
func (ve *ValidationErrors) Add(field, message string, value interface{}) *ValidationErrors {
	ve.Errors = append(ve.Errors, ValidationError{
		Message:  message,
		Param:    field,
		Value:    value,
		Location: "body",
	})
	return ve
}

// HasErrors returns true if there are validation errors
func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

// ToAppError converts validation errors to an AppError
func (ve *ValidationErrors) ToAppError() *AppError {
	if !ve.HasErrors() {
		return nil
	}

	appErr := NewValidationError(ve.Errors[0].Message)
	appErr.Details["errors"] = ve.Errors
	return appErr
}

// As reports whether err carries an *AppError and returns it
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	var ve *ValidationErrors
	if errors.As(err, &ve) && ve.HasErrors() {
		return ve.ToAppError(), true
	}
	return nil, false
}
