package classifier

import (
	"context"
	"strings"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// MaxExcerptLength is the number of characters sent to the classifier.
const MaxExcerptLength = 4000

// CandidateLabels are the zero-shot labels offered to the model.
var CandidateLabels = []string{
	"phishing",
	"malware",
	"credential harvesting",
	"spam",
	"benign",
	"suspicious",
}

// riskLabels are the labels that count as a risk signal.
var riskLabels = map[string]bool{
	"phishing":              true,
	"malware":               true,
	"credential harvesting": true,
	"suspicious":            true,
}

// RiskThreshold is the confidence a risk label must exceed to become an indicator.
const RiskThreshold = 0.5

// Classifier ranks text against the candidate labels.
//
// Implementations must be safe for concurrent use and must honor ctx.
type Classifier interface {
	// Classify returns the top-ranked label and its confidence.
	Classify(ctx context.Context, text string) (model.Prediction, error)
}

// IsRiskLabel reports whether label is associated with malicious content.
// The comparison is case-insensitive.
func IsRiskLabel(label string) bool {
	return riskLabels[strings.ToLower(strings.TrimSpace(label))]
}

// IsRisk reports whether p should be raised as a classifier indicator.
func IsRisk(p model.Prediction) bool {
	return IsRiskLabel(p.Label) && p.Score > RiskThreshold
}

// Excerpt returns the leading MaxExcerptLength characters of text.
func Excerpt(text string) string {
	return model.Truncate(text, MaxExcerptLength)
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, text string) (model.Prediction, error)

// Classify calls f.
func (f Func) Classify(ctx context.Context, text string) (model.Prediction, error) {
	return f(ctx, text)
}

// Static always returns the same prediction.
type Static model.Prediction

// Classify returns the static prediction unless ctx is already done.
func (s Static) Classify(ctx context.Context, _ string) (model.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return model.Prediction{}, &Error{Message: err.Error(), Err: err}
	}
	return model.Prediction(s), nil
}

// Disabled is used when no classifier credentials are configured.
// Every call fails, so assessments carry a classifier_error detail and are
// scored on heuristics alone.
type Disabled struct {
	// Reason is reported as the error message.
	Reason string
}

// Classify always returns an error.
func (d Disabled) Classify(_ context.Context, _ string) (model.Prediction, error) {
	reason := d.Reason
	if reason == "" {
		reason = "classifier disabled"
	}
	return model.Prediction{}, &Error{Message: reason}
}
