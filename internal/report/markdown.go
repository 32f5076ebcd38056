package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// MarkdownWriter renders results as GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders one result.
func (w *MarkdownWriter) Write(result *model.AssessmentResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Cyber Watchdog Report")
	md.PlainText("")
	w.writeResult(md, result)
	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteAll renders a verdict overview followed by every result.
func (w *MarkdownWriter) WriteAll(results []*model.AssessmentResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Cyber Watchdog Report")
	md.PlainText("")

	w.writeOverview(md, results)
	for i, r := range results {
		md.H2("Assessment " + strconv.Itoa(i+1) + ": " + target(r))
		md.PlainText("")
		w.writeResult(md, r)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeOverview(md *markdown.Markdown, results []*model.AssessmentResult) {
	counts := CountVerdicts(results)
	md.Table(markdown.TableSet{
		Header: []string{"Verdict", "Count"},
		Rows: [][]string{
			{"🔴 Unsafe", strconv.Itoa(counts[model.VerdictUnsafe])},
			{"🟢 Safe", strconv.Itoa(counts[model.VerdictSafe])},
			{"⚪ Invalid", strconv.Itoa(counts[model.VerdictInvalid])},
			{"⚠️ Error", strconv.Itoa(counts[model.VerdictError])},
			{"**Total**", "**" + strconv.Itoa(len(results)) + "**"},
		},
	})
	md.PlainText("")

	if len(results) == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Verdicts"),
		piechart.WithShowData(true),
	)
	for _, v := range []model.Verdict{model.VerdictUnsafe, model.VerdictSafe, model.VerdictInvalid, model.VerdictError} {
		if counts[v] > 0 {
			chart.LabelAndIntValue(v.String(), uint64(counts[v]))
		}
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeResult(md *markdown.Markdown, r *model.AssessmentResult) {
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Verdict", "**" + strings.ToUpper(r.Verdict.String()) + "**"},
			{"Target", "`" + escapeCell(target(r)) + "`"},
			{"Title", orDash(escapeCell(r.Meta.Title))},
			{"Redirects", strconv.Itoa(r.Meta.RedirectCount)},
			{"Indicators", strconv.Itoa(r.IndicatorCount())},
		},
	})
	md.PlainText("")

	switch r.Verdict {
	case model.VerdictUnsafe:
		md.Cautionf("%s / %s", r.English, r.Nepali)
	case model.VerdictSafe:
		md.Tip(r.English + " / " + r.Nepali)
	case model.VerdictInvalid:
		md.Importantf("%s / %s", r.English, r.Nepali)
	default:
		md.Warningf("%s / %s", r.English, r.Nepali)
	}
	md.PlainText("")

	if len(r.Details) > 0 {
		rows := make([][]string, len(r.Details))
		for i, d := range r.Details {
			rows[i] = []string{"`" + d.Code.String() + "`", escapeCell(d.English), escapeCell(d.Nepali)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Code", "English", "Nepali"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if r.Meta.TextSnippet != "" {
		md.Details("Text snippet", r.Meta.TextSnippet)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Generated by cyberwatchdog. Heuristic triage only; not a security boundary.*")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// escapeCell keeps a value from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
