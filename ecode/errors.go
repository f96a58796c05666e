package ecode

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError represents an error response returned by the OginiSearch API.
// Status is the HTTP status code; Code is the optional machine error code
// from the response body; Details are preserved verbatim when present.
type APIError struct {
	Status  int            `json:"status"`
	Code    string         `json:"code,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("ogini api error: status %d, code %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("ogini api error: status %d: %s", e.Status, e.Message)
}

// ConnectionError represents a transport-level failure after retries exhaust.
type ConnectionError struct {
	Op       string
	URL      string
	Attempts int
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("ogini connection error: %s %s failed after %d attempts: %v", e.Op, e.URL, e.Attempts, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// NewAPIError creates an APIError with a default message for the status
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: message}
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsConflict reports whether err is an APIError with status 409
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}

// IsConnection reports whether err is a ConnectionError
func IsConnection(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
