package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoAPIKey is returned when no API key is configured for a request
var ErrNoAPIKey = errors.New("no API key configured")

// FallbackErrorMessage is used when a failure carries no message of its own.
const FallbackErrorMessage = "Unknown error"

// ErrorKind classifies relay failures.
type ErrorKind string

// Error kind constants
const (
	KindBadRequest      ErrorKind = "bad_request"
	KindConfiguration   ErrorKind = "configuration_error"
	KindUpstreamFailure ErrorKind = "upstream_failure"
	KindClientTransport ErrorKind = "client_transport_failure"
)

// RelayError is a failure converted to an HTTP status and a JSON {error} body.
type RelayError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *RelayError) Error() string {
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// ErrorBody is the JSON body written for a RelayError.
type ErrorBody struct {
	Error string `json:"error"`
}

// ErrBadRequest creates a 400 error for missing or malformed caller input.
func ErrBadRequest(message string) *RelayError {
	return &RelayError{Kind: KindBadRequest, StatusCode: http.StatusBadRequest, Message: message}
}

// ErrConfiguration creates a 500 error for a missing server-side setting.
func ErrConfiguration(message string) *RelayError {
	return &RelayError{Kind: KindConfiguration, StatusCode: http.StatusInternalServerError, Message: message}
}

// ErrUpstream creates a 500 error wrapping an upstream failure. The message is
// taken from err, or FallbackErrorMessage when err has none.
func ErrUpstream(err error) *RelayError {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = FallbackErrorMessage
	}
	return &RelayError{Kind: KindUpstreamFailure, StatusCode: http.StatusInternalServerError, Message: msg, Err: err}
}

// AsRelayError converts any error into a RelayError. Errors that are not
// already RelayErrors are treated as upstream failures.
func AsRelayError(err error) *RelayError {
	var re *RelayError
	if errors.As(err, &re) {
		return re
	}
	return ErrUpstream(err)
}

// WriteRelayError writes the error as {"error": message} with its status code.
func WriteRelayError(w http.ResponseWriter, err *RelayError) {
	status := err.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := err.Message
	if msg == "" {
		msg = FallbackErrorMessage
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = JSON.NewEncoder(w).Encode(ErrorBody{Error: msg})
}

// UpstreamError is returned by providers when the model call fails, either at
// transport level or with an error response from the provider.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: upstream returned status %d", e.Provider, e.StatusCode)
	}
	return ""
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
