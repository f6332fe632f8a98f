package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/hrygo/parsedate/plugin/datetime"
)

// ErrorCode represents a specific error type of the date API.
type ErrorCode string

const (
	// ErrCodeParse indicates a date string that does not match the grammar.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
	// ErrCodeResolution indicates a valid date string naming no valid instant.
	ErrCodeResolution ErrorCode = "RESOLUTION_ERROR"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeContextCanceled indicates the operation was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

var httpStatus = map[ErrorCode]int{
	ErrCodeParse:             http.StatusUnprocessableEntity,
	ErrCodeResolution:        http.StatusUnprocessableEntity,
	ErrCodeInvalidArgument:   http.StatusBadRequest,
	ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
	ErrCodeContextCanceled:   499,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// APIError represents a structured error of the date API.
type APIError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
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

// WithContext adds context to the error.
func (e *APIError) WithContext(key string, value any) *APIError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// HTTPStatus returns the HTTP status code for the error.
func (e *APIError) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Convenience constructors for common error types.

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *APIError {
	return &APIError{Code: ErrCodeInvalidArgument, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *APIError {
	return &APIError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *APIError {
	return &APIError{Code: code, Message: msg, Cause: cause}
}

// FromError classifies err, as returned by a datetime.Resolver.
func FromError(err error) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	var pe *datetime.ParseError
	if stderrors.As(err, &pe) {
		return (&APIError{Code: ErrCodeParse, Message: pe.Msg, Cause: err}).WithContext("position", pe.Pos)
	}
	var re *datetime.ResolutionError
	if stderrors.As(err, &re) {
		return &APIError{Code: ErrCodeResolution, Message: re.Msg, Cause: err}
	}
	switch {
	case stderrors.Is(err, datetime.ErrInvalidTimezone):
		return Wrap(err, ErrCodeInvalidArgument, "invalid timezone")
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeContextCanceled, "operation canceled")
	}
	return Wrap(err, ErrCodeInternal, "internal error")
}
