package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured error from the server: a non-2xx status or a 2xx
// body with success:false. Fields carries server-side validation messages
// keyed by field name when the response included them.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return "api: " + e.Message
}

// TransportError wraps a failure before any server response was read
// (connection refused, timeout, body read failure).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return "api: " + e.Op + ": " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// FieldErrors extracts server validation messages from err, if any.
func FieldErrors(err error) map[string]string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Fields
	}
	return nil
}

// UserMessage reduces err to something fit for a toast.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return "Could not reach the server. Check your connection and try again."
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// retryable reports whether a list-load failure is worth another attempt:
// transport failures and 5xx responses. 4xx responses will not change on
// retry.
func retryable(err error) bool {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return false
}
