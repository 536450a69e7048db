package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kescan/kescan/internal/model"
)

// RunDB provides SQLite-based storage for verification run history.
// It manages connection pooling and provides methods for CRUD operations.
//
// A single database file holds the history for all targets, which keeps
// cross-target queries and backup simple.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "kescan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite DSN: mode=rw prevents creating new files,
	// mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Check runs store complete verification reports as JSON
	CREATE TABLE IF NOT EXISTS check_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		target TEXT NOT NULL,
		run_id TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		report_json TEXT NOT NULL,
		status_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_target ON check_runs(target);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON check_runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON check_runs(timestamp);

	-- Individual check outcomes, one row per check, for history queries
	CREATE TABLE IF NOT EXISTS check_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		target TEXT NOT NULL,
		suite TEXT NOT NULL,
		check_type TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON check_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_target_type ON check_results(target, check_type);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveCheckReport saves a complete verification report, both as JSON and as
// per-check rows for history queries.
func (rdb *RunDB) SaveCheckReport(ctx context.Context, report *model.CheckReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	statusSummary := map[string]int{
		"pass":  report.PassCount,
		"fail":  report.FailCount,
		"skip":  report.SkipCount,
		"error": report.ErrorCount,
	}
	summaryJSON, _ := json.Marshal(statusSummary) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	query := `
	INSERT INTO check_runs (target, run_id, report_json, status_summary)
	VALUES (?, ?, ?, ?)
	`

	if _, err := rdb.db.ExecContext(ctx, query,
		report.Target,
		report.RunID,
		string(reportJSON),
		string(summaryJSON),
	); err != nil {
		return fmt.Errorf("failed to save check report: %w", err)
	}

	resultQuery := `
	INSERT INTO check_results (run_id, target, suite, check_type, status, detail)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, r := range report.Results {
		if _, err := rdb.db.ExecContext(ctx, resultQuery,
			report.RunID,
			report.Target,
			r.Suite,
			r.Type,
			r.Status.String(),
			r.Detail,
		); err != nil {
			return fmt.Errorf("failed to save check result: %w", err)
		}
	}

	return nil
}

// GetLatestReport retrieves the most recent report for a target.
// Returns nil without error when the target has no history.
func (rdb *RunDB) GetLatestReport(ctx context.Context, target string) (*model.CheckReport, error) {
	query := `
	SELECT report_json FROM check_runs
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, target).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check report: %w", err)
	}

	var report model.CheckReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// GetRunHistory retrieves all reports for a target, newest first.
func (rdb *RunDB) GetRunHistory(ctx context.Context, target string) ([]*model.CheckReport, error) {
	query := `
	SELECT report_json FROM check_runs
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var reports []*model.CheckReport
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		var report model.CheckReport
		if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
			continue // Skip malformed reports
		}
		reports = append(reports, &report)
	}

	return reports, rows.Err()
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading full reports.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Target is the checked engine base URL.
	Target string

	// RunID is the run's correlation identifier.
	RunID string

	// Timestamp is when the run was performed.
	Timestamp time.Time

	// StatusSummary contains counts of checks by status.
	StatusSummary map[string]int
}

// GetRunHistoryWithMetadata retrieves run metadata for a target.
// This is more efficient than GetRunHistory when only metadata is needed.
func (rdb *RunDB) GetRunHistoryWithMetadata(ctx context.Context, target string) ([]RunMetadata, error) {
	query := `
	SELECT id, target, run_id, timestamp, status_summary
	FROM check_runs
	WHERE target = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("failed to get run history: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var timestamp string
		var summaryJSON sql.NullString

		if err := rows.Scan(&meta.ID, &meta.Target, &meta.RunID, &timestamp, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &meta.StatusSummary); err != nil {
				meta.StatusSummary = make(map[string]int)
			}
		} else {
			meta.StatusSummary = make(map[string]int)
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetReportByID retrieves a report by its database ID.
// Returns nil without error when no such row exists.
func (rdb *RunDB) GetReportByID(ctx context.Context, id int64) (*model.CheckReport, error) {
	query := `
	SELECT report_json FROM check_runs
	WHERE id = ?
	`

	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check report: %w", err)
	}

	var report model.CheckReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}

	return &report, nil
}

// ListTargets returns all targets with stored runs.
func (rdb *RunDB) ListTargets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT target FROM check_runs
	ORDER BY target
	`

	rows, err := rdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// CheckHistoryEntry is one historical outcome of a single check.
type CheckHistoryEntry struct {
	RunID     string
	Suite     string
	Status    string
	Detail    string
	Timestamp time.Time
}

// GetCheckHistory retrieves the outcome history of one check type for a
// target, newest first. Useful for spotting flaky checks.
func (rdb *RunDB) GetCheckHistory(ctx context.Context, target, checkType string) ([]CheckHistoryEntry, error) {
	query := `
	SELECT run_id, suite, status, detail, timestamp
	FROM check_results
	WHERE target = ? AND check_type = ?
	ORDER BY timestamp DESC, id DESC
	`

	rows, err := rdb.db.QueryContext(ctx, query, target, checkType)
	if err != nil {
		return nil, fmt.Errorf("failed to get check history: %w", err)
	}
	defer rows.Close()

	var entries []CheckHistoryEntry
	for rows.Next() {
		var e CheckHistoryEntry
		var timestamp string
		var detail sql.NullString

		if err := rows.Scan(&e.RunID, &e.Suite, &e.Status, &detail, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		e.Detail = detail.String
		e.Timestamp = parseTimestamp(timestamp)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
