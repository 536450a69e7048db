// Package engine provides a typed HTTP client for the Knowledge Engine
// content-processing API.
//
// The engine exposes a REST surface for submitting source documents,
// tracking asynchronous processing jobs, listing generated articles, and
// querying the QA, style, versioning, and review subsystems. This package
// wraps that surface with context-aware methods and a differentiated error
// taxonomy so callers can tell transport failures, HTTP-level rejections,
// failed jobs, and poll timeouts apart.
package engine
