package client

import (
	"errors"
	"fmt"
)

// Error class sentinels. Every *APIError matches exactly one of them with
// errors.Is.
var (
	// ErrNetwork covers connection failures, timeouts and truncated bodies.
	ErrNetwork = errors.New("network error")

	// ErrHTTPStatus covers any non-2xx response.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrMalformedResponse covers bodies that are not JSON or lack an
	// expected field.
	ErrMalformedResponse = errors.New("malformed response")
)

// ErrorClass represents a classification of API errors.
type ErrorClass string

const (
	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassHTTPStatus represents non-2xx responses.
	ErrorClassHTTPStatus ErrorClass = "http_status"

	// ErrorClassMalformed represents undecodable or incomplete bodies.
	ErrorClassMalformed ErrorClass = "malformed"
)

func (c ErrorClass) sentinel() error {
	switch c {
	case ErrorClassNetwork:
		return ErrNetwork
	case ErrorClassHTTPStatus:
		return ErrHTTPStatus
	case ErrorClassMalformed:
		return ErrMalformedResponse
	default:
		return nil
	}
}

// APIError represents a failed tesseract request with additional context.
type APIError struct {
	Class      ErrorClass
	StatusCode int
	Cube       string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("tesseract %s error (cube %s", e.Class, e.Cube)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(", status %d", e.StatusCode)
	}
	msg += "): " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for the error's class.
func (e *APIError) Is(target error) bool {
	s := e.Class.sentinel()
	return s != nil && target == s
}

// NewMalformedError reports a response that decoded but failed validation.
func NewMalformedError(cube string, err error) *APIError {
	return &APIError{
		Class:   ErrorClassMalformed,
		Cube:    cube,
		Message: "invalid response content",
		Err:     err,
	}
}
