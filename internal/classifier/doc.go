// Package classifier adapts a remote zero-shot text classification service
// to the assessment pipeline.
//
// The pipeline only depends on the Classifier interface. The HuggingFace
// type talks to the Hugging Face Inference API; Func, Static and Disabled
// cover tests, offline use and runs without an API token.
//
// Classification never panics. Transport failures, non-200 answers and
// malformed bodies are all reported as *Error values that wrap
// ErrClassifier, so callers can fold them into an assessment instead of
// aborting it.
package classifier
