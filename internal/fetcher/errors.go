package fetcher

import (
	"errors"
	"fmt"
)

// ErrFetch is matched by every error returned from Fetcher.Fetch.
var ErrFetch = errors.New("fetch failed")

// Error describes why a URL could not be acquired.
type Error struct {
	// URL is the URL that was requested.
	URL string

	// Err is the underlying network, timeout or parse error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("fetch_error:%v", e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrFetch.
func (e *Error) Is(target error) bool {
	return target == ErrFetch
}

// newError wraps err for rawURL.
func newError(rawURL string, err error) *Error {
	return &Error{URL: rawURL, Err: err}
}
