package llm

import (
	"errors"
	"fmt"
)

// ErrNoText is returned when a response envelope carries no text part.
var ErrNoText = errors.New("no text in response")

// ErrInvalidImage is returned when an image part is not valid base64. Nothing is sent.
var ErrInvalidImage = errors.New("invalid image data")

// APIError represents a failed round trip to the inference endpoint.
// StatusCode is zero when the request never produced an HTTP response.
type APIError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "request failed"
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("status %d: %s", e.StatusCode, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("inference API error: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("inference API error: %s", msg)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}
