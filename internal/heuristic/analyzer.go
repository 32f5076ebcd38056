package heuristic

import (
	"log/slog"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// Analyzer evaluates URL and content rules.
// An Analyzer holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	urlRules     []urlRule
	contentRules []contentRule
	logger       *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used to report recovered rule failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an Analyzer with the built-in rule sets.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		urlRules:     defaultURLRules(),
		contentRules: defaultContentRules(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}

	return a
}

// defaultAnalyzer backs the package-level helpers.
var defaultAnalyzer = NewAnalyzer()

// AnalyzeURL runs the URL rules with the default analyzer.
func AnalyzeURL(rawURL string) []model.Indicator {
	return defaultAnalyzer.AnalyzeURL(rawURL)
}

// AnalyzeContent runs the content rules with the default analyzer.
func AnalyzeContent(text, rawMarkup string) []model.Indicator {
	return defaultAnalyzer.AnalyzeContent(text, rawMarkup)
}

// safeMatch runs match and converts a panic into "not fired".
func (a *Analyzer) safeMatch(code model.Code, match func() bool) (fired bool) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("heuristic rule failed, treating as not fired",
				"rule", code.String(),
				"panic", r,
			)
			fired = false
		}
	}()
	return match()
}
