package pipeline

import (
	"context"
	"log/slog"

	"github.com/kescan/kescan/internal/checks"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/model"
)

// SuiteStep adapts a check suite to the pipeline Step interface, binding it
// to the engine client for its target.
type SuiteStep struct {
	// suite is the check suite to execute.
	suite checks.Suite

	// client is the engine client for the report's target.
	client *engine.Client

	// logger for structured logging.
	logger *slog.Logger
}

// SuiteStepOption configures a SuiteStep.
type SuiteStepOption func(*SuiteStep)

// WithSuiteLogger sets a custom logger for the suite step.
func WithSuiteLogger(logger *slog.Logger) SuiteStepOption {
	return func(s *SuiteStep) {
		s.logger = logger
	}
}

// NewSuiteStep wraps a check suite as a pipeline step.
func NewSuiteStep(suite checks.Suite, client *engine.Client, opts ...SuiteStepOption) *SuiteStep {
	s := &SuiteStep{
		suite:  suite,
		client: client,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *SuiteStep) Name() string {
	return s.suite.Name()
}

// Do executes the wrapped suite.
func (s *SuiteStep) Do(ctx context.Context, report *model.CheckReport) error {
	before := report.TotalChecks()
	err := s.suite.Run(ctx, s.client, report)

	s.logger.Debug("suite recorded results",
		"suite", s.suite.Name(),
		"checks", report.TotalChecks()-before,
	)

	return err
}

// DefaultPipeline creates a pipeline executing the given suites in order
// against the target served by client. This is the standard pipeline for a
// full verification run.
func DefaultPipeline(client *engine.Client, suites []checks.Suite, pipelineOpts ...Option) *Pipeline {
	p := New(pipelineOpts...)

	for _, suite := range suites {
		p.AddStep(NewSuiteStep(suite, client, WithSuiteLogger(p.logger)))
	}

	return p
}
