// Package main provides the entry point for the kescan CLI.
//
// kescan is a black-box verification tool for Knowledge Engine deployments.
// It submits known source documents to a running engine, polls the resulting
// jobs, and asserts on the articles, diagnostics, and review state the
// engine produces.
//
// Usage:
//
//	kescan check http://127.0.0.1:8001
//	kescan compare http://127.0.0.1:8001
//
// See --help for all available options.
package main

// main is the entry point for kescan.
func main() {
	Execute()
}
