// Package apierror normalizes every failure of a request into a single error
// shape that callers can show directly or bind to form fields.
package apierror

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

const (
	CodeCancelled = "CANCELLED"
	CodeNetwork   = "NETWORK_ERROR"
	CodeUnknown   = "UNKNOWN_ERROR"
)

const (
	MessageCancelled  = "Request was cancelled"
	MessageNoResponse = "No response received from server"
	MessageFailed     = "Request failed"
	MessageUnexpected = "An unexpected error occurred"
)

var (
	// ErrCancelled is returned when a request is aborted through a cancel token.
	ErrCancelled = errors.New("request cancelled")
	// ErrNoResponse marks transport failures where no response arrived.
	ErrNoResponse = errors.New("no response received")
)

// ValidationErrors maps a field path to its messages.
type ValidationErrors map[string][]string

// Error is the normalized failure of an API call. Message is always set.
type Error struct {
	Message string
	// Status is the HTTP status code, 0 when no response was received.
	Status            int
	Code              string
	Details           any
	ValidationErrors  ValidationErrors
	IsValidationError bool

	cause error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) IsCancelled() bool { return e.Code == CodeCancelled }

func (e *Error) IsNetworkError() bool { return e.Code == CodeNetwork }

func (e *Error) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// FieldErrors maps the validation errors onto form field names.
func (e *Error) FieldErrors(overrides map[string]string) FieldMapping {
	return MapFieldErrors(e.ValidationErrors, overrides)
}

// As finds an *Error in err's chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ResponseError is a completed HTTP exchange with a non-success status.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}
