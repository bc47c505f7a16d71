package pbimages

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind distinguishes why a request failed, so callers can decide
// between retrying and showing the message to the user.
type ErrorKind string

const (
	// KindNetwork means the request never produced an HTTP response
	// (connection refused, timeout, DNS failure).
	KindNetwork ErrorKind = "network"
	// KindRejected means the server answered with an error status.
	KindRejected ErrorKind = "rejected"
	// KindUnknown covers everything else (malformed responses and the like).
	KindUnknown ErrorKind = "unknown"
)

// Error is the error type returned by all client operations.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind `json:"-"`
	// StatusCode is the HTTP status code, 0 for network errors.
	StatusCode int `json:"-"`
	// Code is the machine-readable error code (e.g. "unauthorized").
	Code string `json:"code"`
	// Message is a human-readable message suitable for display.
	Message string `json:"message"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap exposes the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// IsUnauthorized returns true if the server rejected the credentials or token.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == "unauthorized"
}

// IsNotFound returns true if the requested resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Code == "not_found"
}

// IsConflict returns true if the resource already exists, such as a
// duplicate username at registration.
func (e *Error) IsConflict() bool {
	return e.StatusCode == http.StatusConflict || e.Code == "conflict"
}

// ErrNoFile is returned by Gallery.Upload when no file was chosen.
// It is raised locally, before any network call.
var ErrNoFile = &Error{
	Kind:    KindRejected,
	Code:    "no_file",
	Message: "No file selected",
}

// genericFailureMessage is shown when the server gave no usable detail.
const genericFailureMessage = "Something went wrong. Please try again."

// AsError returns the typed client error, if err is one.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// UserMessage extracts a human-readable message from any client error,
// falling back to generic text when the server provided no detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return genericFailureMessage
}

// newNetworkError wraps a transport-level failure.
func newNetworkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: genericFailureMessage,
		cause:   err,
	}
}

// parseError parses an error response body from the API.
func parseError(statusCode int, body []byte) *Error {
	// Envelope format: {"error":{"code":...,"message":...}}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &Error{
			Kind:       KindRejected,
			StatusCode: statusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}

	// Legacy flat format: {"detail":"..."}
	var flat struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Detail != "" {
		return &Error{
			Kind:       KindRejected,
			StatusCode: statusCode,
			Message:    flat.Detail,
		}
	}

	return &Error{
		Kind:       KindRejected,
		StatusCode: statusCode,
		Code:       http.StatusText(statusCode),
		Message:    genericFailureMessage,
	}
}
