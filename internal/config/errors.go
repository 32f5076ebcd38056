package config

import "errors"

// Configuration validation errors returned by Config.Validate and
// Config.RequireTarget.
var (
	// ErrNoTarget is returned when assess is run without a URL, text, file or list.
	ErrNoTarget = errors.New("no target specified: provide a URL, --text, --file or --list")

	// ErrConflictingTargets is returned when more than one kind of target is given.
	ErrConflictingTargets = errors.New("conflicting targets: use only one of URL, --text, --file or --list")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid fetch timeout: must be positive")

	// ErrInvalidClassifierTimeout is returned when the classifier timeout is not positive.
	ErrInvalidClassifierTimeout = errors.New("invalid classifier timeout: must be positive")

	// ErrInvalidConcurrency is returned when the batch concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidEndpoint is returned when the classifier endpoint is not an
	// absolute http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid classifier endpoint: must be an absolute http or https URL")

	// ErrEmptyModel is returned when no classifier model is configured.
	ErrEmptyModel = errors.New("invalid classifier model: must not be empty")

	// ErrUnknownLabelCode is returned when a label override names a code
	// that no rule produces.
	ErrUnknownLabelCode = errors.New("unknown indicator code in labels")
)
