// Package pipeline turns a URL or a raw text payload into an AssessmentResult.
//
// An assessment is a small state machine driven by an ordered list of
// steps: validate, acquire (URL input only), heuristics, classify, fuse and
// render. Each step advances the shared Assessment state. A step may end
// the run early with ErrNoInput, ErrInvalidInput or ErrAcquisition; the
// Assessor turns those into the matching invalid or error verdicts, so
// callers always receive a result and never an error.
//
// Classifier failures are not terminal. They are recorded as a detail entry
// and the verdict is computed from the heuristics alone.
//
// BatchAssessor runs many assessments with bounded concurrency using
// errgroup and returns results in input order.
package pipeline
