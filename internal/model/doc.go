// Package model defines the data structures shared by the assessment pipeline.
//
// This package contains the following main types:
//   - Indicator: a (code, detail) risk signal produced by a rule
//   - ExtractedContent: the normalized result of fetching one URL
//   - Prediction: the top label returned by the zero-shot classifier
//   - AssessmentResult: the bilingual verdict returned to every caller
//
// Models live in their own package so that fetcher, heuristic, classifier,
// pipeline and report can share them without import cycles.
package model
