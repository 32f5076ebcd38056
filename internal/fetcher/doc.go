// Package fetcher acquires the content of a single URL for assessment.
//
// # Architecture
//
// The Fetcher performs exactly one HTTP GET per call, follows redirects,
// counts the hops taken, decodes the body leniently and extracts the
// document title and visible text. It never follows links found in the
// page; one URL in, one ExtractedContent out.
//
// # Failure handling
//
// Any network, timeout or parse problem is returned as a *Error that
// matches ErrFetch with errors.Is. There are no retries: callers that need
// resilience retry at their own layer.
//
// # Usage
//
//	f := fetcher.New(fetcher.WithTimeout(8 * time.Second))
//	content, err := f.Fetch(ctx, "https://example.com")
//
// The underlying *http.Client is shared between calls and safe for
// concurrent use, so one Fetcher can serve many simultaneous assessments.
package fetcher
