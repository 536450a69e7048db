// Package checks contains the verification suites kescan runs against a
// Knowledge Engine deployment.
//
// Each suite is a sequence of black-box checks over the engine's HTTP API:
// it submits synthetic source documents, waits for processing jobs, and
// asserts on the JSON and HTML properties of what the engine produced.
// Suites record pass/fail/skip/error outcomes on a model.CheckReport; they
// never abort the run for an ordinary assertion failure.
package checks
