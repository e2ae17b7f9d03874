package runbook

import (
	"errors"
	"fmt"
)

// ErrorCode identifies well-known domain error categories raised by the
// runbook model.
type ErrorCode string

const (
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrCodeDuplicate  ErrorCode = "DUPLICATE_ID"
	ErrCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrCodeState      ErrorCode = "INVALID_STATE"
)

// Sentinels usable with errors.Is. They match any DomainError carrying the
// same code, whatever its message or context.
var (
	ErrDuplicateID = &DomainError{Code: ErrCodeDuplicate}
	ErrNotFound    = &DomainError{Code: ErrCodeNotFound}
	ErrValidation  = &DomainError{Code: ErrCodeValidation}
	ErrState       = &DomainError{Code: ErrCodeState}
)

// DomainError represents a typed error enriched with contextual data while
// remaining free from infrastructure dependencies.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As usage.
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target is a DomainError with the same code. A target
// without a message matches on code alone.
func (e *DomainError) Is(target error) bool {
	if e == nil {
		return false
	}
	var domainErr *DomainError
	if !errors.As(target, &domainErr) {
		return false
	}
	if e.Code != domainErr.Code {
		return false
	}
	return domainErr.Message == "" || e.Message == domainErr.Message
}

// WithContext clones the error with additional contextual metadata.
func (e *DomainError) WithContext(ctx map[string]interface{}) *DomainError {
	if e == nil {
		return nil
	}
	merged := make(map[string]interface{}, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Context: merged,
	}
}

// IsDuplicate reports whether err carries the DUPLICATE_ID code.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}

// IsNotFound reports whether err carries the NOT_FOUND code.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func newDomainError(code ErrorCode, message string, context map[string]interface{}) *DomainError {
	return &DomainError{Code: code, Message: message, Context: context}
}

func newValidationError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeValidation, message, context)
}

func newDuplicateError(identifier string) *DomainError {
	return newDomainError(ErrCodeDuplicate, "duplicate identifier", map[string]interface{}{
		"id": identifier,
	})
}

func newNotFoundError(kind, identifier string) *DomainError {
	return newDomainError(ErrCodeNotFound, kind+" not found", map[string]interface{}{
		"id": identifier,
	})
}

func newStateError(message string, context map[string]interface{}) *DomainError {
	return newDomainError(ErrCodeState, message, context)
}
