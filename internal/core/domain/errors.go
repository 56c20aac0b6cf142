package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a client-side failure with a structured error code.
// Codes follow the format BS-{AREA}-{NNNN}.
type DomainError struct {
	Code    string // Error code (e.g., "BS-AUTH-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches another DomainError by code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Credential errors.
var (
	// ErrDecode indicates the credential is not a well-formed token.
	ErrDecode = NewDomainError("BS-TOKEN-4000", "malformed credential")

	// ErrInvalidCredential indicates required claims are missing or unusable.
	ErrInvalidCredential = NewDomainError("BS-AUTH-4001", "invalid credential")

	// ErrCredentialExpired indicates the credential expiry has elapsed.
	ErrCredentialExpired = NewDomainError("BS-AUTH-4011", "credential expired")

	// ErrNotAuthenticated indicates an operation needs a signed-in session.
	ErrNotAuthenticated = NewDomainError("BS-AUTH-4010", "not signed in")
)

// Form errors.
var (
	// ErrValidation indicates a form failed client-side validation.
	ErrValidation = NewDomainError("BS-FORM-4000", "validation failed")
)

// View errors.
var (
	// ErrNothingToExport indicates an export was requested for an empty list.
	ErrNothingToExport = NewDomainError("BS-EXPORT-4000", "nothing to export")

	// ErrUnsupportedFormat indicates an unknown export or download format.
	ErrUnsupportedFormat = NewDomainError("BS-EXPORT-4001", "unsupported format")

	// ErrStaleResponse indicates a response arrived after the session changed.
	ErrStaleResponse = NewDomainError("BS-VIEW-4090", "session changed while the request was in flight")
)

// System errors.
var (
	// ErrStorage indicates the local credential storage failed.
	ErrStorage = NewDomainError("BS-STORE-5000", "credential storage error")
)
