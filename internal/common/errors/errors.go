// Package errors provides the coded error taxonomy used to report scenario failures.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeAssertionFailed  ErrorCode = "ASSERTION_FAILED"
	ErrCodeUnexpectedStatus ErrorCode = "UNEXPECTED_STATUS"
	ErrCodeSchemaViolation  ErrorCode = "SCHEMA_VIOLATION"

	ErrCodeRequestFailed  ErrorCode = "REQUEST_FAILED"
	ErrCodeRequestTimeout ErrorCode = "REQUEST_TIMEOUT"
	ErrCodeDecodeFailed   ErrorCode = "DECODE_FAILED"

	ErrCodeScenarioPanic    ErrorCode = "SCENARIO_PANIC"
	ErrCodeScenarioNotFound ErrorCode = "SCENARIO_NOT_FOUND"

	ErrCodeSinkWriteFailed        ErrorCode = "SINK_WRITE_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeConfigInvalid          ErrorCode = "CONFIG_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured suite error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after adding a metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewAssertionFailedError reports a failed expectation inside a scenario.
func NewAssertionFailedError(format string, args ...interface{}) *StandardError {
	return newError(ErrCodeAssertionFailed, fmt.Sprintf(format, args...), "", false, nil)
}

// NewUnexpectedStatusError reports an HTTP status different from the expected one.
func NewUnexpectedStatusError(method, path string, want, got int, body string) *StandardError {
	return newError(ErrCodeUnexpectedStatus,
		fmt.Sprintf("%s %s: expected status %d, got %d", method, path, want, got),
		truncate(body, 512), false, nil).
		WithMetadata("expected", want).
		WithMetadata("actual", got)
}

// NewSchemaViolationError reports a response body that does not match its schema.
func NewSchemaViolationError(schema string, violations []string) *StandardError {
	return newError(ErrCodeSchemaViolation,
		fmt.Sprintf("response does not match schema %s", schema),
		fmt.Sprintf("%v", violations), false, nil).
		WithMetadata("violations", violations)
}

// NewRequestFailedError creates a retryable transport error.
func NewRequestFailedError(method, path string, err error) *StandardError {
	return newError(ErrCodeRequestFailed,
		fmt.Sprintf("%s %s failed", method, path), err.Error(), true, err)
}

// NewRequestTimeoutError creates a retryable timeout error.
func NewRequestTimeoutError(method, path string, err error) *StandardError {
	return newError(ErrCodeRequestTimeout,
		fmt.Sprintf("%s %s timed out", method, path), err.Error(), true, err)
}

// NewDecodeFailedError reports a body that could not be decoded.
func NewDecodeFailedError(target string, err error) *StandardError {
	return newError(ErrCodeDecodeFailed,
		fmt.Sprintf("cannot decode response into %s", target), err.Error(), false, err)
}

func NewScenarioPanicError(scenarioID string, recovered interface{}) *StandardError {
	return newError(ErrCodeScenarioPanic,
		fmt.Sprintf("scenario %s panicked", scenarioID), fmt.Sprintf("%v", recovered), false, nil)
}

func NewScenarioNotFoundError(scenarioID string) *StandardError {
	return newError(ErrCodeScenarioNotFound,
		"scenario not registered", fmt.Sprintf("scenarioId: %s", scenarioID), false, nil)
}

// NewSinkWriteFailedError creates a retryable result-sink error.
func NewSinkWriteFailedError(sink string, err error) *StandardError {
	return newError(ErrCodeSinkWriteFailed,
		fmt.Sprintf("writing results to %s failed", sink), err.Error(), true, err)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed,
		"Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", channel, err.Error()), true, err)
}

func NewConfigInvalidError(err error) *StandardError {
	return newError(ErrCodeConfigInvalid, "invalid configuration", err.Error(), false, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
