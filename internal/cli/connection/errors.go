package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
)

// User-facing messages for failures the backend does not describe.
const (
	MsgSessionExpired  = "Session expired. Please login again."
	MsgEmailUnverified = "Please verify your email before logging in."
	MsgForbidden       = "Access forbidden."
	MsgNotFound        = "Endpoint not found."
	MsgBadRequest      = "Bad request."
	MsgServerError     = "Server error. Please try again later."
	MsgCannotConnect   = "Cannot connect to server. Please check if the backend is running."
	MsgNetwork         = "Network error. Please check your connection."
)

// APIError is a failed round-trip. Status is 0 when no response arrived.
type APIError struct {
	Status     int
	Message    string
	Unverified bool
	Cause      error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Unwrap returns the transport error, if any.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Unauthorized reports whether the backend rejected the credential.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized && !e.Unverified
}

// errorBody is the backend error envelope.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusError maps a non-2xx response onto an APIError.
func statusError(status int, body errorBody) *APIError {
	e := &APIError{Status: status}
	switch status {
	case http.StatusUnauthorized:
		if body.Error == MsgEmailUnverified {
			e.Message = MsgEmailUnverified
			e.Unverified = true
		} else {
			e.Message = MsgSessionExpired
		}
	case http.StatusForbidden:
		e.Message = orDefault(body.Error, MsgForbidden)
	case http.StatusNotFound:
		e.Message = MsgNotFound
	case http.StatusBadRequest:
		e.Message = orDefault(body.Error, MsgBadRequest)
	case http.StatusInternalServerError:
		e.Message = MsgServerError
	default:
		e.Message = orDefault(body.Error, orDefault(body.Message, fmt.Sprintf("Error %d", status)))
	}
	return e
}

// transportError maps a failed round-trip onto an APIError.
func transportError(err error) *APIError {
	e := &APIError{Message: MsgNetwork, Cause: err}

	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.Canceled):
		e.Message = "Request cancelled."
	case errors.Is(err, syscall.ECONNREFUSED), errors.As(err, &dnsErr):
		e.Message = MsgCannotConnect
	}
	return e
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
