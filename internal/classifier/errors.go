package classifier

import (
	"errors"
	"fmt"
)

// ErrClassifier is the sentinel wrapped by every classification failure.
var ErrClassifier = errors.New("classifier error")

// Error describes a failed classification request.
type Error struct {
	// StatusCode is the HTTP status of the response, or 0 when no response
	// was received.
	StatusCode int

	// Message is the response body or the underlying error text.
	Message string

	// Err is the underlying transport or decode error, if any.
	Err error
}

// Error implements the error interface.
// The message alone is returned because it is shown to end users verbatim.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return ErrClassifier.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrClassifier.
func (e *Error) Is(target error) bool {
	return target == ErrClassifier
}
