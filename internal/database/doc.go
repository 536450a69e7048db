// Package database provides SQLite-based persistence for verification run
// history.
//
// Each run is stored twice: the full report as a JSON blob for faithful
// retrieval, and one row per check outcome for cheap history queries. The
// compare command reads this history to classify regressions between runs.
//
// The driver is modernc.org/sqlite, a pure Go SQLite implementation, so no
// cgo toolchain is required to build or run.
package database
