// Package model defines the data structures shared across kescan:
// verification reports, per-check results, outcome statuses, and the
// severity grading table for check types.
package model
