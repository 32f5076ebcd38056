// Package server exposes the assessor over a small JSON HTTP API.
//
//	POST /classify   {"text": "..."}  -> AssessmentResult
//	GET  /healthz                     -> {"status": "ok"}
//
// The text field accepts either a URL or raw text, routed the same way as
// the interactive prompt. Form-encoded bodies are accepted too.
package server
