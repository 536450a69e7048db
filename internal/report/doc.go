// Package report provides output formatting for verification results.
//
// Three writers are available: SimpleWriter for human-readable terminal
// output, JSONWriter for tool integration, and MarkdownWriter for
// documentation and CI artifacts. MultiWriter fans a report out to several
// destinations at once.
package report
