package pipeline

import (
	"github.com/nao1215/cyberwatchdog/internal/classifier"
	"github.com/nao1215/cyberwatchdog/internal/model"
)

const (
	// IndicatorWeight is added to the score for every indicator.
	IndicatorWeight = 0.18

	// ConfidenceWeight scales the classifier confidence.
	ConfidenceWeight = 0.4

	// UnsafeThreshold is the lowest score rendered as unsafe.
	UnsafeThreshold = 0.5
)

// RiskConfidence returns the classifier confidence that counts towards the
// score: the top score when the top label is risk-associated, otherwise 0.
// A nil prediction (classifier failure) also yields 0.
func RiskConfidence(p *model.Prediction) float64 {
	if p == nil || !classifier.IsRiskLabel(p.Label) {
		return 0
	}
	return p.Score
}

// FuseScore combines the indicator count and the classifier prediction.
//
//	score = 0.18 × count + 0.4 × RiskConfidence(p)
func FuseScore(count int, p *model.Prediction) float64 {
	return IndicatorWeight*float64(count) + ConfidenceWeight*RiskConfidence(p)
}

// Decide maps a score to a verdict. The comparison is strict, so a score of
// exactly UnsafeThreshold is unsafe.
func Decide(score float64) model.Verdict {
	if score < UnsafeThreshold {
		return model.VerdictSafe
	}
	return model.VerdictUnsafe
}
