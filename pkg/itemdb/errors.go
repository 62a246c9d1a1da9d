package itemdb

import (
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of lookup errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx responses other than 404.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents malformed response bodies.
	ErrorClassDecode ErrorClass = "decode"
)

// UpstreamError is a failed item lookup with classification context.
type UpstreamError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("item db %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("item db %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classifyStatus categorizes an unexpected HTTP status for observability.
// 404 never reaches here; it is a valid no-data outcome, not an error.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= http.StatusInternalServerError:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}
