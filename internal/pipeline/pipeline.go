package pipeline

import (
	"context"
	"log/slog"

	"github.com/kescan/kescan/internal/model"
)

// Step is one stage of a verification run. Steps execute in order, each
// appending to the shared report.
type Step interface {
	// Do runs the step against the report's target. A returned error means
	// the step could not run at all; individual check failures belong in
	// the report with a nil return.
	Do(ctx context.Context, report *model.CheckReport) error

	// Name identifies the step in logs and the performed-suites list.
	Name() string
}

// Pipeline runs an ordered list of steps against one target.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps later steps running after one fails.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to keep executing steps
// even when one fails. Failed steps are logged and their errors recorded
// in the report, but subsequent steps still execute.
//
// The default is to stop, because the first failure is usually the engine
// being unreachable and every later suite would fail the same way.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline; add steps with AddStep.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends one step; execution order follows insertion order.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps at once.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step in sequence against the report.
//
// Cancellation is checked between steps; steps bound their own waits.
// With continueOnError unset the first step error is returned immediately;
// otherwise step errors land in the report and execution proceeds.
func (p *Pipeline) Execute(ctx context.Context, report *model.CheckReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			report.TimedOut = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing suite",
			"suite", step.Name(),
			"target", report.Target,
		)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("suite failed",
				"suite", step.Name(),
				"target", report.Target,
				"error", err,
			)

			report.Error = err
			report.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("suite completed",
				"suite", step.Name(),
				"target", report.Target,
			)
		}

		report.PerformedSuites = append(report.PerformedSuites, step.Name())
	}

	return nil
}

// StepCount reports how many steps the pipeline holds.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames lists step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
