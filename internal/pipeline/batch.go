package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kescan/kescan/internal/model"
	"golang.org/x/sync/errgroup"
)

// BatchProcessor handles concurrent verification of multiple targets.
// It uses errgroup to manage goroutines and respect concurrency limits.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each target.
	// Building the pipeline may fail (e.g. an unparseable target URL);
	// that failure is recorded on the target's report.
	pipelineFactory func(target string) (*Pipeline, error)

	// concurrency is the maximum number of targets checked at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed check reports, index-aligned with the
	// target slice. Access is synchronized via mutex.
	results []*model.CheckReport
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent targets.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
//
// The pipelineFactory function is called once per target so that pipeline
// state never leaks between targets.
func NewBatchProcessor(pipelineFactory func(target string) (*Pipeline, error), opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     4,
		results:         make([]*model.CheckReport, 0),
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch checks multiple targets concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Returns all reports collected, index-aligned with targets, even for
// targets that failed. The error return indicates cancellation.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.CheckReport, error) {
	bp.logger.Info("starting batch verification",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*model.CheckReport, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("checking target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			report := bp.run(ctx, target)

			bp.mu.Lock()
			bp.results[i] = report
			bp.mu.Unlock()

			if report.Error != nil {
				bp.logger.Warn("check failed",
					"target", target,
					"error", report.Error,
				)
				// Keep checking the other targets; the failure lives
				// in the report.
				return nil
			}

			bp.logger.Info("check completed",
				"target", target,
			)

			return nil
		})
	}

	err := g.Wait()

	elapsed := time.Since(startTime)
	bp.logger.Info("batch verification complete",
		"total_targets", len(targets),
		"elapsed", elapsed,
	)

	return bp.results, err
}

// ProcessBatchWithCallback checks multiple targets and calls a callback for
// each completed report. This is useful for streaming results.
//
// The callback receives the report and the index of the target in the
// original slice. It is called from the goroutine that completed the check,
// so it must be safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(report *model.CheckReport, index int),
) error {
	bp.logger.Info("starting batch verification with callback",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report := bp.run(ctx, target)
			callback(report, i)

			return nil
		})
	}

	return g.Wait()
}

// run builds and executes the pipeline for one target, always returning a
// report. Pipeline construction and execution errors are stored on it.
func (bp *BatchProcessor) run(ctx context.Context, target string) *model.CheckReport {
	report := model.NewCheckReport(target)

	p, err := bp.pipelineFactory(target)
	if err != nil {
		report.Error = err
		report.ErrorMessage = err.Error()
		return report
	}

	_ = p.Execute(ctx, report) //nolint:errcheck // Error is stored in report
	return report
}
