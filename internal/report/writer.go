package report

import (
	"io"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// Writer renders assessment results.
type Writer interface {
	// Write renders a single result.
	Write(result *model.AssessmentResult) (int, error)

	// WriteAll renders several results, e.g. from a --list run.
	WriteAll(results []*model.AssessmentResult) (int, error)
}

// MultiWriter writes to several Writers in order and stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders result with every writer.
func (m *MultiWriter) Write(result *model.AssessmentResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteAll renders results with every writer.
func (m *MultiWriter) WriteAll(results []*model.AssessmentResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteAll(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// target names what was assessed.
func target(result *model.AssessmentResult) string {
	if result.Meta.FinalURL != "" {
		return result.Meta.FinalURL
	}
	return "(text input)"
}
