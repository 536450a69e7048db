package model

// Status represents the outcome of a single check.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and sorting. The String() method provides
// human-readable output when needed.
type Status int

const (
	// StatusPass indicates the check's assertion held.
	StatusPass Status = iota

	// StatusFail indicates the engine responded but the assertion did not hold.
	// Examples: wrong article count after chunking, broken TOC anchors,
	// missing QA badges.
	StatusFail

	// StatusSkip indicates the check did not run because a precondition was
	// not met. Examples: structure checks when no article was produced,
	// review checks when no run exists to approve.
	StatusSkip

	// StatusError indicates the check could not complete: transport failure,
	// unexpected HTTP status, malformed JSON, or a job poll timeout.
	// Errors are distinct from failures because they say nothing about
	// whether the engine's behavior is correct.
	StatusError
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// IsTerminalFailure reports whether the status should count against the run.
// Both failures and errors make a run non-green; skips do not.
func (s Status) IsTerminalFailure() bool {
	return s == StatusFail || s == StatusError
}
