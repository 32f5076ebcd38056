package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/cyberwatchdog/internal/classifier"
	"github.com/nao1215/cyberwatchdog/internal/heuristic"
	"github.com/nao1215/cyberwatchdog/internal/locale"
	"github.com/nao1215/cyberwatchdog/internal/model"
)

// RedirectThreshold is the redirect count above which the redirects
// indicator fires.
const RedirectThreshold = 3

// Fetcher acquires a page. *fetcher.Fetcher satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error)
}

// ValidateStep checks that input is present and that a URL is well formed.
type ValidateStep struct{}

// Name returns the step name.
func (ValidateStep) Name() string { return "validate" }

// Do executes the step.
func (ValidateStep) Do(_ context.Context, a *Assessment) error {
	switch {
	case a.Input.IsURL():
		if !heuristic.ValidURL(a.Input.URL) {
			a.State = StateInvalid
			return fmt.Errorf("%w: %q", ErrInvalidInput, a.Input.URL)
		}
	case a.Input.RawText != "":
	default:
		a.State = StateError
		return ErrNoInput
	}

	a.State = StateInputValidated
	return nil
}

// AcquireStep fetches the page on the URL path and selects the source text.
type AcquireStep struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewAcquireStep creates an AcquireStep.
func NewAcquireStep(f Fetcher, logger *slog.Logger) *AcquireStep {
	return &AcquireStep{fetcher: f, logger: logger}
}

// Name returns the step name.
func (s *AcquireStep) Name() string { return "acquire" }

// Do executes the step.
func (s *AcquireStep) Do(ctx context.Context, a *Assessment) error {
	if !a.Input.IsURL() {
		a.SourceText = a.Input.RawText
		return nil
	}

	content, err := s.fetcher.Fetch(ctx, a.Input.URL)
	if err != nil {
		a.State = StateError
		s.logger.Info("could not fetch url", "url", a.Input.URL, "error", err)
		return fmt.Errorf("%w: %w", ErrAcquisition, err)
	}

	a.Content = content
	a.SourceText = content.Text
	a.State = StateContentAcquired
	return nil
}

// HeuristicsStep runs the URL and content rules.
type HeuristicsStep struct {
	analyzer *heuristic.Analyzer
}

// NewHeuristicsStep creates a HeuristicsStep.
func NewHeuristicsStep(analyzer *heuristic.Analyzer) *HeuristicsStep {
	return &HeuristicsStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *HeuristicsStep) Name() string { return "heuristics" }

// Do executes the step.
func (s *HeuristicsStep) Do(_ context.Context, a *Assessment) error {
	if a.Content == nil {
		a.Indicators = append(a.Indicators, s.analyzer.AnalyzeContent(a.SourceText, a.SourceText)...)
		a.State = StateHeuristicsEvaluated
		return nil
	}

	// The URL rules look at where the page actually lives. A final URL the
	// validator rejects (e.g. a redirect to a bare host) falls back to the
	// already validated input.
	target := a.Content.FinalURL
	if !heuristic.ValidURL(target) {
		target = a.Input.URL
	}

	a.Indicators = append(a.Indicators, s.analyzer.AnalyzeURL(target)...)
	a.Indicators = append(a.Indicators, s.analyzer.AnalyzeContent(a.Content.Text, a.Content.RawMarkup)...)
	if a.Content.RedirectCount > RedirectThreshold {
		a.Indicators = append(a.Indicators, model.NewIndicator(model.CodeRedirects, "Multiple redirects"))
	}

	a.State = StateHeuristicsEvaluated
	return nil
}

// ClassifyStep consults the classifier once on an excerpt of the source text.
type ClassifyStep struct {
	classifier classifier.Classifier
	logger     *slog.Logger
}

// NewClassifyStep creates a ClassifyStep.
func NewClassifyStep(c classifier.Classifier, logger *slog.Logger) *ClassifyStep {
	return &ClassifyStep{classifier: c, logger: logger}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string { return "classify" }

// Do executes the step. Classifier failures are recorded, not returned,
// unless the assessment itself was cancelled.
func (s *ClassifyStep) Do(ctx context.Context, a *Assessment) error {
	prediction, err := s.classifier.Classify(ctx, classifier.Excerpt(a.SourceText))
	if ctxErr := ctx.Err(); ctxErr != nil {
		a.State = StateError
		return ctxErr
	}

	if err != nil {
		s.logger.Warn("classifier unavailable, scoring on heuristics only", "error", err)
		a.ClassifierErr = err
		a.State = StateClassified
		return nil
	}

	a.Prediction = &prediction
	if classifier.IsRisk(prediction) {
		a.Indicators = append(a.Indicators, model.NewIndicator(
			model.CodeClassifierPhishing,
			fmt.Sprintf("%s (%.2f)", prediction.Label, prediction.Score),
		))
	}

	a.State = StateClassified
	return nil
}

// FuseStep computes the score and the verdict.
type FuseStep struct{}

// Name returns the step name.
func (FuseStep) Name() string { return "fuse" }

// Do executes the step.
func (FuseStep) Do(_ context.Context, a *Assessment) error {
	a.Score = FuseScore(len(a.Indicators), a.Prediction)
	a.Verdict = Decide(a.Score)
	a.State = StateScoreFused
	return nil
}

// RenderStep builds the bilingual result.
type RenderStep struct {
	labels locale.Table
}

// NewRenderStep creates a RenderStep.
func NewRenderStep(labels locale.Table) *RenderStep {
	return &RenderStep{labels: labels}
}

// Name returns the step name.
func (s *RenderStep) Name() string { return "render" }

// Do executes the step.
func (s *RenderStep) Do(_ context.Context, a *Assessment) error {
	result := &model.AssessmentResult{
		Verdict: a.Verdict,
		Details: make([]model.Detail, 0, len(a.Indicators)+1),
	}

	if a.Verdict == model.VerdictSafe {
		result.English = MessageSafeEnglish
		result.Nepali = MessageSafeNepali
	} else {
		result.English = MessageUnsafeEnglish
		result.Nepali = MessageUnsafeNepali
	}

	for _, ind := range a.Indicators {
		result.Details = append(result.Details, model.Detail{
			Code:    ind.Code,
			English: fmt.Sprintf("%s: %s", ind.Code, ind.Detail),
			Nepali:  fmt.Sprintf("%s — %s", s.labels.Lookup(ind.Code), ind.Detail),
		})
	}

	switch {
	case a.Prediction != nil:
		label := fmt.Sprintf("%s (%.2f)", a.Prediction.Label, a.Prediction.Score)
		result.Details = append(result.Details, model.Detail{
			Code:    model.CodeMLLabel,
			English: "ML label: " + label,
			Nepali:  "ML लेबल: " + label,
		})
	case a.ClassifierErr != nil:
		msg := a.ClassifierErr.Error()
		result.Details = append(result.Details, model.Detail{
			Code:    model.CodeClassifierError,
			English: "ML label: " + msg,
			Nepali:  "ML लेबल: " + msg,
		})
	}

	if a.Content != nil {
		result.Meta = model.NewMeta(
			a.Content.FinalURL,
			a.Content.Title,
			a.Content.RedirectCount,
			a.Content.Text,
			a.Content.RawMarkup,
		)
	} else {
		result.Meta = model.NewMeta("", "", 0, a.SourceText, "")
	}

	a.Result = result
	a.State = StateVerdictRendered
	return nil
}
