package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nao1215/cyberwatchdog/internal/classifier"
	"github.com/nao1215/cyberwatchdog/internal/heuristic"
	"github.com/nao1215/cyberwatchdog/internal/locale"
	"github.com/nao1215/cyberwatchdog/internal/model"
)

// Fixed summary lines.
const (
	MessageSafeEnglish   = "Looks mostly safe based on current heuristics and ML check."
	MessageSafeNepali    = "हालको जाँच अनुसार सुरक्षित देखिन्छ।"
	MessageUnsafeEnglish = "Potentially unsafe."
	MessageUnsafeNepali  = "संभावित रुपमा असुरक्षित।"

	MessageNoInputEnglish = "No input provided."
	MessageNoInputNepali  = "कुनै इनपुट छैन"

	MessageInvalidEnglish = "Invalid URL format."

	MessageFetchEnglishPrefix = "Could not fetch URL: "
	MessageFetchNepali        = "URL पहुँच गर्न सकिएन"

	MessageCancelledEnglishPrefix = "Assessment cancelled: "
	MessageCancelledNepali        = "जाँच रद्द गरियो"
)

// Assessor runs assessments. It holds no per-invocation state and is safe
// for concurrent use as long as its fetcher and classifier are.
type Assessor struct {
	fetcher    Fetcher
	classifier classifier.Classifier
	analyzer   *heuristic.Analyzer
	labels     locale.Table
	logger     *slog.Logger
}

// AssessorOption configures an Assessor.
type AssessorOption func(*Assessor)

// WithLabels sets the Nepali label table used when rendering.
func WithLabels(labels locale.Table) AssessorOption {
	return func(a *Assessor) {
		a.labels = labels
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) AssessorOption {
	return func(a *Assessor) {
		a.logger = logger
	}
}

// WithAnalyzer replaces the heuristic analyzer.
func WithAnalyzer(analyzer *heuristic.Analyzer) AssessorOption {
	return func(a *Assessor) {
		a.analyzer = analyzer
	}
}

// NewAssessor creates an Assessor.
func NewAssessor(f Fetcher, c classifier.Classifier, opts ...AssessorOption) *Assessor {
	a := &Assessor{
		fetcher:    f,
		classifier: c,
		labels:     locale.Nepali(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.analyzer == nil {
		a.analyzer = heuristic.NewAnalyzer(heuristic.WithLogger(a.logger))
	}

	return a
}

// Pipeline returns a fresh pipeline with the assessment steps in order.
func (a *Assessor) Pipeline() *Pipeline {
	p := New(WithPipelineLogger(a.logger))
	p.AddSteps(
		ValidateStep{},
		NewAcquireStep(a.fetcher, a.logger),
		NewHeuristicsStep(a.analyzer),
		NewClassifyStep(a.classifier, a.logger),
		FuseStep{},
		NewRenderStep(a.labels),
	)
	return p
}

// Assess evaluates in and always returns a result.
func (a *Assessor) Assess(ctx context.Context, in Input) *model.AssessmentResult {
	state := NewAssessment(in)
	err := a.Pipeline().Execute(ctx, state)
	if err == nil && state.Result != nil {
		a.logger.Debug("assessment complete",
			"verdict", state.Verdict.String(),
			"score", state.Score,
			"indicators", model.Codes(state.Indicators),
		)
		return state.Result
	}
	return a.failure(ctx, state, err)
}

// AssessURL is shorthand for Assess with a URL input.
func (a *Assessor) AssessURL(ctx context.Context, rawURL string) *model.AssessmentResult {
	return a.Assess(ctx, Input{URL: rawURL})
}

// AssessText is shorthand for Assess with a raw text input.
func (a *Assessor) AssessText(ctx context.Context, text string) *model.AssessmentResult {
	return a.Assess(ctx, Input{RawText: text})
}

// ClassifyAny assesses text as a URL when it starts with "http" and as raw
// text otherwise.
func (a *Assessor) ClassifyAny(ctx context.Context, text string) *model.AssessmentResult {
	return a.Assess(ctx, InputFor(text))
}

// InputFor picks the assessment path for a free-form string.
func InputFor(text string) Input {
	if strings.HasPrefix(text, "http") {
		return Input{URL: text}
	}
	return Input{RawText: text}
}

// failure renders the terminal error and invalid verdicts. Indicators
// computed before the failure are discarded.
func (a *Assessor) failure(ctx context.Context, state *Assessment, err error) *model.AssessmentResult {
	result := &model.AssessmentResult{
		Verdict: model.VerdictError,
		Details: []model.Detail{},
	}

	// Validation makes no I/O, so bad input is reported as such even when
	// the context was done before the first step ran.
	if state.State == StateStart {
		if verr := (ValidateStep{}).Do(ctx, state); verr != nil {
			err = verr
		}
	}

	switch {
	case errors.Is(err, ErrNoInput):
		result.English = MessageNoInputEnglish
		result.Nepali = MessageNoInputNepali
	case errors.Is(err, ErrInvalidInput):
		result.Verdict = model.VerdictInvalid
		result.English = MessageInvalidEnglish
		result.Nepali = a.labels.Lookup(model.CodeInvalidURL)
	case ctx.Err() != nil:
		result.English = MessageCancelledEnglishPrefix + ctx.Err().Error()
		result.Nepali = MessageCancelledNepali
	case errors.Is(err, ErrAcquisition):
		result.English = MessageFetchEnglishPrefix + fetchReason(err)
		result.Nepali = MessageFetchNepali
	default:
		// Only reachable through custom steps.
		a.logger.Error("assessment failed", "state", state.State.String(), "error", err)
		result.English = MessageFetchEnglishPrefix + errString(err)
		result.Nepali = MessageFetchNepali
	}

	state.State = terminalState(result.Verdict)
	state.Indicators = nil
	state.Result = result
	return result
}

// fetchReason strips the sentinel prefix added by AcquireStep.
func fetchReason(err error) string {
	return strings.TrimPrefix(err.Error(), ErrAcquisition.Error()+": ")
}

func errString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

func terminalState(v model.Verdict) State {
	if v == model.VerdictInvalid {
		return StateInvalid
	}
	return StateError
}
