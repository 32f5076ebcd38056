package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

const ruleWidth = 60

var (
	colorUnsafe = color.New(color.FgRed, color.Bold)
	colorSafe   = color.New(color.FgGreen, color.Bold)
	colorOther  = color.New(color.FgYellow)
)

// SimpleWriter renders results as plain text.
type SimpleWriter struct {
	baseWriter

	// verbose adds the text and markup snippets.
	verbose bool

	// color highlights the verdict. It is still off when stdout is not a terminal.
	color bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose includes the content snippets in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithColor highlights the verdict line.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.color = enabled
	}
}

// NewSimpleWriter creates a SimpleWriter.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders one result.
func (w *SimpleWriter) Write(result *model.AssessmentResult) (int, error) {
	var sb strings.Builder
	w.writeResult(&sb, result)
	return io.WriteString(w.output, sb.String())
}

// WriteAll renders every result followed by a verdict tally.
func (w *SimpleWriter) WriteAll(results []*model.AssessmentResult) (int, error) {
	var sb strings.Builder
	for _, r := range results {
		w.writeResult(&sb, r)
	}

	counts := CountVerdicts(results)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Assessed: %d  unsafe: %d  safe: %d  invalid: %d  error: %d\n",
		len(results),
		counts[model.VerdictUnsafe],
		counts[model.VerdictSafe],
		counts[model.VerdictInvalid],
		counts[model.VerdictError],
	)
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeResult(sb *strings.Builder, r *model.AssessmentResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "VERDICT: %s\n", w.verdict(r.Verdict))
	fmt.Fprintf(sb, "Target:  %s\n", target(r))
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	sb.WriteString("[English]\n")
	sb.WriteString(r.English)
	sb.WriteString("\n\n[Nepali]\n")
	sb.WriteString(r.Nepali)
	sb.WriteString("\n\n")

	if len(r.Details) > 0 {
		sb.WriteString("[Details]\n")
		for _, d := range r.Details {
			fmt.Fprintf(sb, "  - %s\n", d.English)
			fmt.Fprintf(sb, "    %s\n", d.Nepali)
		}
		sb.WriteString("\n")
	}

	if r.Verdict.Scored() {
		sb.WriteString("[Meta]\n")
		fmt.Fprintf(sb, "  final_url: %s\n", r.Meta.FinalURL)
		fmt.Fprintf(sb, "  redirects: %d\n", r.Meta.RedirectCount)
		fmt.Fprintf(sb, "  title:     %s\n", r.Meta.Title)
		if w.verbose {
			fmt.Fprintf(sb, "  text:      %s\n", oneLine(r.Meta.TextSnippet))
			fmt.Fprintf(sb, "  markup:    %s\n", oneLine(r.Meta.MarkupSnippet))
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) verdict(v model.Verdict) string {
	name := strings.ToUpper(v.String())
	if !w.color {
		return name
	}
	switch v {
	case model.VerdictUnsafe:
		return colorUnsafe.Sprint(name)
	case model.VerdictSafe:
		return colorSafe.Sprint(name)
	default:
		return colorOther.Sprint(name)
	}
}

// oneLine collapses whitespace so a snippet fits on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountVerdicts tallies results by verdict.
func CountVerdicts(results []*model.AssessmentResult) map[model.Verdict]int {
	counts := make(map[model.Verdict]int, 4)
	for _, r := range results {
		if r != nil {
			counts[r.Verdict]++
		}
	}
	return counts
}
