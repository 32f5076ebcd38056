package pipeline

import "errors"

// Terminal assessment errors.
// A step returning one of these stops the pipeline; the Assessor renders the
// matching verdict.
var (
	// ErrNoInput is returned when neither a URL nor raw text was supplied.
	ErrNoInput = errors.New("no input provided")

	// ErrInvalidInput is returned when the URL fails syntactic validation.
	// No network call is made in this case.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAcquisition is returned when the page could not be fetched.
	ErrAcquisition = errors.New("content acquisition failed")
)
