package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/guarzo/hrmapi/common/model"
)

var (
	// ErrNoRefreshToken is returned when a refresh is requested without a stored refresh token.
	ErrNoRefreshToken = errors.New("no refresh token available")
	// ErrIncompleteTokenPair is returned when a login or refresh response lacks either token.
	ErrIncompleteTokenPair = errors.New("response did not contain a complete token pair")
)

// RequestError is the outcome of any request whose final HTTP status is not 2xx.
type RequestError struct {
	StatusCode int
	Message    string
	ErrorCode  string
	Details    []model.ErrorDetail
	// Body is the parsed response body, "{}" when the server sent nothing usable.
	Body json.RawMessage
}

func (e *RequestError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("request failed with status %d (%s): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// NewRequestError builds a RequestError from a final status and the already parsed body.
// The message comes from the body's "message" field, falling back to the status text.
func NewRequestError(status int, body []byte) *RequestError {
	reqErr := &RequestError{
		StatusCode: status,
		Body:       json.RawMessage(body),
	}

	var env model.ErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		reqErr.Message = strings.TrimSpace(env.Message)
		reqErr.ErrorCode = env.ErrorCode
		reqErr.Details = env.Details
	}
	if reqErr.Message == "" {
		reqErr.Message = http.StatusText(status)
	}
	if reqErr.Message == "" {
		reqErr.Message = "Request failed"
	}
	return reqErr
}

// TransportError means no response was obtained at all (DNS, connection, timeout, cancellation).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to execute %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from a RequestError anywhere in err's chain.
// It returns 0 when err is not a RequestError.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a RequestError with status 401.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
