package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/cyberwatchdog/internal/model"
)

// DefaultConcurrency is the number of assessments run at once by default.
const DefaultConcurrency = 4

// BatchAssessor runs many assessments concurrently.
type BatchAssessor struct {
	assessor    *Assessor
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchAssessor.
type BatchOption func(*BatchAssessor)

// WithBatchLogger sets the logger for batch-level messages.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchAssessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent assessments.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchAssessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchAssessor creates a BatchAssessor on top of assessor.
func NewBatchAssessor(assessor *Assessor, opts ...BatchOption) *BatchAssessor {
	b := &BatchAssessor{
		assessor:    assessor,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// AssessAll assesses every input and returns the results in input order.
//
// Every slot of the returned slice is filled. Inputs that were not started
// before ctx was done get a cancelled error verdict. The returned error is
// ctx.Err() in that case and nil otherwise.
func (b *BatchAssessor) AssessAll(ctx context.Context, inputs []Input) ([]*model.AssessmentResult, error) {
	results := make([]*model.AssessmentResult, len(inputs))
	err := b.Each(ctx, inputs, func(result *model.AssessmentResult, index int) {
		results[index] = result
	})

	// Slots left empty belong to inputs skipped after cancellation.
	for i, r := range results {
		if r == nil {
			results[i] = b.assessor.Assess(ctx, inputs[i])
		}
	}
	return results, err
}

// Each assesses every input and calls fn as each one completes. Inputs
// skipped after ctx is done are not reported.
// fn is called from worker goroutines; distinct calls always receive
// distinct indexes, so writing to a pre-sized slice needs no locking.
func (b *BatchAssessor) Each(ctx context.Context, inputs []Input, fn func(result *model.AssessmentResult, index int)) error {
	b.logger.Info("starting batch assessment",
		"total", len(inputs),
		"concurrency", b.concurrency,
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, in := range inputs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(b.assessor.Assess(gctx, in), i)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	b.logger.Info("batch assessment complete",
		"total", len(inputs),
		"elapsed", time.Since(start),
	)
	return err
}
