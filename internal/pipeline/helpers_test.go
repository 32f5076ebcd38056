package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/nao1215/cyberwatchdog/internal/classifier"
	"github.com/nao1215/cyberwatchdog/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFetcher returns canned content and counts calls.
type fakeFetcher struct {
	content *model.ExtractedContent
	err     error
	block   bool
	calls   atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*model.ExtractedContent, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}

	content := model.ExtractedContent{FinalURL: rawURL}
	if f.content != nil {
		content = *f.content
		if content.FinalURL == "" {
			content.FinalURL = rawURL
		}
	}
	return &content, nil
}

// countingClassifier wraps a classifier and records its inputs.
type countingClassifier struct {
	next  classifier.Classifier
	calls atomic.Int32
	last  atomic.Value
}

func (c *countingClassifier) Classify(ctx context.Context, text string) (model.Prediction, error) {
	c.calls.Add(1)
	c.last.Store(text)
	return c.next.Classify(ctx, text)
}

func (c *countingClassifier) lastInput() string {
	s, _ := c.last.Load().(string)
	return s
}

func newAssessor(f Fetcher, c classifier.Classifier) *Assessor {
	return NewAssessor(f, c, WithLogger(discardLogger()))
}
