// Package pipeline provides a framework for executing check suites in
// sequence against an engine target.
//
// Each suite is wrapped as a Step that receives the current report and
// records its results on it. Suites run in a fixed order because earlier
// suites create engine-side artifacts (articles, review runs, diagnostics
// entries) that later suites inspect.
//
// The pipeline supports both single-target runs and batch verification of
// multiple targets with concurrency control using errgroup.
package pipeline
