package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Reason optionally narrows Code, e.g. VALIDATION_FAILED because of INVALID_POSTCODE
	Reason string `json:"reason,omitempty"`
	cause  error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so sentinels work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error that keeps the underlying cause for logging.
// The cause is never part of the message shown to callers.
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error codes shared across bounded contexts
const (
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeAssetBinding      = "ASSET_BINDING_FAILED"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// NewValidationError reports input that was rejected before any side effect
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidationFailed, message)
}

// WithReason returns a copy of the error carrying a sub-code
func (e *DomainError) WithReason(reason string) *DomainError {
	c := *e
	c.Reason = reason
	return &c
}

// NewPersistenceError reports a storage failure. The message is deliberately opaque.
func NewPersistenceError(cause error) *DomainError {
	return WrapDomainError(CodePersistenceFailed, "Order could not be saved", cause)
}

// NewAssetBindingError reports uploaded files that do not line up with the design's upload elements
func NewAssetBindingError(message string) *DomainError {
	return NewDomainError(CodeAssetBinding, message)
}

// IsCode reports whether err is a DomainError carrying the given code
func IsCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}
