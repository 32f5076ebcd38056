package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// State is the position of an assessment in the state machine.
type State int

const (
	// StateStart is the initial state.
	StateStart State = iota
	// StateInputValidated means the input was present and well-formed.
	StateInputValidated
	// StateContentAcquired means the page was fetched (URL input only).
	StateContentAcquired
	// StateHeuristicsEvaluated means all rules have run.
	StateHeuristicsEvaluated
	// StateClassified means the classifier was consulted, successfully or not.
	StateClassified
	// StateScoreFused means the score and verdict are known.
	StateScoreFused
	// StateVerdictRendered is the successful terminal state.
	StateVerdictRendered
	// StateInvalid is the terminal state for absent or malformed input.
	StateInvalid
	// StateError is the terminal state for acquisition failure or cancellation.
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateInputValidated:
		return "input_validated"
	case StateContentAcquired:
		return "content_acquired"
	case StateHeuristicsEvaluated:
		return "heuristics_evaluated"
	case StateClassified:
		return "classified"
	case StateScoreFused:
		return "score_fused"
	case StateVerdictRendered:
		return "verdict_rendered"
	case StateInvalid:
		return "invalid"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further step may run from s.
func (s State) Terminal() bool {
	return s == StateVerdictRendered || s == StateInvalid || s == StateError
}

// Input is what the caller asks to assess.
// Exactly one of URL or RawText is expected. When both are set the URL wins.
type Input struct {
	URL     string
	RawText string
}

// IsURL reports whether the URL path applies.
func (in Input) IsURL() bool {
	return in.URL != ""
}

// MaxLabelText is the number of characters of raw text kept in a Label.
const MaxLabelText = 80

// Label names the input in history records and logs. Raw text is collapsed
// to one line and cut to MaxLabelText characters.
func (in Input) Label() string {
	if in.IsURL() {
		return in.URL
	}
	return "text:" + model.Truncate(strings.Join(strings.Fields(in.RawText), " "), MaxLabelText)
}

// Assessment is the invocation-local state shared by the steps.
// It is never shared between goroutines.
type Assessment struct {
	Input Input
	State State

	// Content is the fetched page. It is nil on the raw-text path.
	Content *model.ExtractedContent

	// SourceText is the text handed to the content rules and the classifier.
	SourceText string

	// Indicators accumulates heuristic and classifier indicators in order.
	Indicators []model.Indicator

	// Prediction is set when the classifier answered.
	Prediction *model.Prediction

	// ClassifierErr is set when the classifier failed.
	ClassifierErr error

	Score   float64
	Verdict model.Verdict

	// Result is set by the render step.
	Result *model.AssessmentResult
}

// NewAssessment creates the state for one invocation.
func NewAssessment(in Input) *Assessment {
	return &Assessment{
		Input:      in,
		State:      StateStart,
		Indicators: make([]model.Indicator, 0),
	}
}

// Step is one transition of the assessment state machine.
type Step interface {
	// Do advances a. Returning an error stops the pipeline.
	Do(ctx context.Context, a *Assessment) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPipelineLogger sets the logger used by the pipeline.
func WithPipelineLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order until one fails, the context is done or
// the assessment reaches a terminal state.
//
// Cancellation is checked before every step. Steps that perform network I/O
// are expected to honor ctx themselves.
func (p *Pipeline) Execute(ctx context.Context, a *Assessment) error {
	for _, step := range p.steps {
		if a.State.Terminal() {
			return nil
		}

		if err := ctx.Err(); err != nil {
			p.logger.Warn("assessment cancelled",
				"step", step.Name(),
				"state", a.State.String(),
				"reason", err,
			)
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"state", a.State.String(),
		)

		if err := step.Do(ctx, a); err != nil {
			p.logger.Debug("step stopped the assessment",
				"step", step.Name(),
				"error", err,
			)
			return err
		}
	}

	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
