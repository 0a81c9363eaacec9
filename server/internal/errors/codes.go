package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies an API error kind.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInputTooLarge indicates a text above the configured size limit.
	ErrCodeInputTooLarge ErrorCode = "INPUT_TOO_LARGE"
	// ErrCodeUnknownRecognizer indicates the requested recognizer is not registered.
	ErrCodeUnknownRecognizer ErrorCode = "UNKNOWN_RECOGNIZER"
	// ErrCodeNotFound indicates an unknown route.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeContextCanceled indicates the client went away.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// statusCodeClientClosed is the non-standard status used for canceled requests.
const statusCodeClientClosed = 499

var httpStatus = map[ErrorCode]int{
	ErrCodeInvalidArgument:   http.StatusBadRequest,
	ErrCodeInputTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeUnknownRecognizer: http.StatusNotFound,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeContextCanceled:   statusCodeClientClosed,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// HTTPStatus returns the response status for code.
func (c ErrorCode) HTTPStatus() int {
	if s, ok := httpStatus[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// APIError is a coded error returned by the HTTP API.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Details map[string]any
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a key/value to the error body.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Body is the JSON error envelope.
type Body struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Body returns the JSON envelope of e. The cause is not exposed.
func (e *APIError) Body() Body {
	return Body{Code: e.Code, Message: e.Message, Details: e.Details}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(format string, args ...any) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// InputTooLarge reports a text of size bytes above limit.
func InputTooLarge(size, limit int) *APIError {
	return (&APIError{
		Code:    ErrCodeInputTooLarge,
		Message: fmt.Sprintf("text is %d bytes, limit is %d", size, limit),
	}).WithDetail("limit", limit)
}

// UnknownRecognizer creates an error for an unregistered recognizer name.
func UnknownRecognizer(name string) *APIError {
	return &APIError{Code: ErrCodeUnknownRecognizer, Message: fmt.Sprintf("recognizer not found: %s", name)}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded() *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: "too many requests"}
}

// Timeout creates a timeout error.
func Timeout(cause error) *APIError {
	return &APIError{Code: ErrCodeTimeout, Message: "scan timed out", Cause: cause}
}

// ContextCanceled creates a context canceled error.
func ContextCanceled(cause error) *APIError {
	return &APIError{Code: ErrCodeContextCanceled, Message: "operation canceled", Cause: cause}
}

// Internal wraps an unexpected error.
func Internal(cause error) *APIError {
	return &APIError{Code: ErrCodeInternal, Message: "internal error", Cause: cause}
}

// From converts any error to an APIError. Context errors map to their codes,
// anything else unknown becomes INTERNAL.
func From(err error) *APIError {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &apiErr):
		return apiErr
	case stderrors.Is(err, context.DeadlineExceeded):
		return Timeout(err)
	case stderrors.Is(err, context.Canceled):
		return ContextCanceled(err)
	default:
		return Internal(err)
	}
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
