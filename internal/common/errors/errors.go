// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// The closed error taxonomy of the pipeline. Every external-call failure is
// classified under exactly one of these codes so callers can branch on kind
// instead of message text.
const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeExtractionFailed         ErrorCode = "EXTRACTION_FAILED"
	ErrCodeExtractionTimeout        ErrorCode = "EXTRACTION_TIMEOUT"
	ErrCodeExtractionInvalidPayload ErrorCode = "EXTRACTION_INVALID_PAYLOAD"

	ErrCodeLedgerConnectionFailed ErrorCode = "LEDGER_CONNECTION_FAILED"
	ErrCodeLedgerAppendFailed     ErrorCode = "LEDGER_APPEND_FAILED"
	ErrCodeCredentialsInvalid     ErrorCode = "CREDENTIALS_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf returns the error code of err, or UNKNOWN_ERROR when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return "UNKNOWN_ERROR"
}

// IsRetryable reports whether another attempt of the failed operation may
// succeed. Unclassified errors default to retryable so transient network
// failures are not misreported as terminal.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return true
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError creates a retryable LLM extraction error.
func NewExtractionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionFailed,
		Message:   "LLM extraction call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionTimeoutError creates a retryable LLM timeout error.
func NewExtractionTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionTimeout,
		Message:   "LLM extraction timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionInvalidPayloadError creates a retryable error for a model
// response missing either required field. Another attempt may produce a
// complete record, so the error stays retryable.
func NewExtractionInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeExtractionInvalidPayload,
		Message:   "LLM response missing required fields",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerConnectionFailedError creates a retryable ledger connection error.
func NewLedgerConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerConnectionFailed,
		Message:   "Ledger connection failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLedgerAppendFailedError creates a retryable ledger write error.
func NewLedgerAppendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLedgerAppendFailed,
		Message:   "Ledger append failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialsInvalidError creates a non-retryable credentials error.
// Retrying cannot fix a missing or malformed service-account file.
func NewCredentialsInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialsInvalid,
		Message:   "Ledger credentials missing or invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}
