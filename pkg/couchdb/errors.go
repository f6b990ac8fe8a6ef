package couchdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ServerError represents the CouchDB error envelope returned with a non-2xx
// status: {"error": "...", "reason": "..."}.
type ServerError struct {
	StatusCode int    `json:"-"          yaml:"-"`
	ErrorType  string `json:"error"      yaml:"error"`
	Reason     string `json:"reason"     yaml:"reason"`
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.ErrorType == "" {
		return fmt.Sprintf("server error (status %d)", e.StatusCode)
	}

	return fmt.Sprintf("%s: %s (status %d)", e.ErrorType, e.Reason, e.StatusCode)
}

// Well-known CouchDB error type strings.
const (
	ErrorTypeNotFound     = "not_found"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeFileExists   = "file_exists"
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrServerURLRequired    = errors.New("server URL is required")
	ErrCredentialsRequired  = errors.New("username and password are required")
	ErrUnknownAuthType      = errors.New("unknown auth type")
	ErrAttachmentBodyNil    = errors.New("attachment body is required")
	ErrCacheDisabled        = errors.New("cache disabled")
	ErrCacheKeyNotFound     = errors.New("key not found")
	ErrCacheEntryExpired    = errors.New("entry expired")
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)

// ParseServerError decodes an error response body into a ServerError. Bodies
// that are not the standard envelope still yield a usable error carrying the
// HTTP status.
func ParseServerError(statusCode int, data []byte) *ServerError {
	serverErr := &ServerError{StatusCode: statusCode}

	if len(data) > 0 {
		// A decode failure leaves the envelope fields empty; the status
		// line is still reported.
		_ = json.Unmarshal(data, serverErr)
	}

	if serverErr.ErrorType == "" {
		serverErr.ErrorType = http.StatusText(statusCode)
	}

	return serverErr
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode == http.StatusNotFound || serverErr.ErrorType == ErrorTypeNotFound
	}

	return false
}

// IsConflict checks if the error is a document update conflict.
func IsConflict(err error) bool {
	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode == http.StatusConflict || serverErr.ErrorType == ErrorTypeConflict
	}

	return false
}

// IsUnauthorized checks if the error is an authentication failure.
func IsUnauthorized(err error) bool {
	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode == http.StatusUnauthorized || serverErr.ErrorType == ErrorTypeUnauthorized
	}

	return false
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	serverErr := &ServerError{}
	if errors.As(err, &serverErr) {
		return serverErr.StatusCode == http.StatusForbidden || serverErr.ErrorType == ErrorTypeForbidden
	}

	return false
}

// IsValidationError checks if the error is a client-side parameter
// validation failure that never reached the network.
func IsValidationError(err error) bool {
	verr := &ValidationError{}

	return errors.As(err, &verr)
}
