package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for a Knowledge Engine backend running on a LAN or
// staging host; production deployments behind slow proxies may need larger
// timeouts via CLI flags.
const (
	// DefaultBaseURL is the address of a locally running Knowledge Engine.
	// Port 8001 is the engine's conventional development port.
	DefaultBaseURL = "http://127.0.0.1:8001"

	// DefaultTimeout is the per-request timeout. Individual API calls are
	// cheap; long-running work is tracked through jobs, not open requests.
	DefaultTimeout = 30 * time.Second

	// DefaultJobTimeout bounds how long a check waits for an asynchronous
	// processing job to reach a terminal state. Document processing with
	// chunking and QA validation routinely takes over a minute for large
	// uploads, so this is deliberately generous.
	DefaultJobTimeout = 5 * time.Minute

	// DefaultPollInterval is the delay between job status polls.
	// Shorter intervals add load on the engine without finishing jobs faster.
	DefaultPollInterval = 3 * time.Second

	// DefaultBatchSize of 4 concurrent targets balances throughput with the
	// load each verification run places on its engine (every run submits
	// real processing jobs).
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "kescan"

	// DefaultUserAgent identifies kescan in HTTP requests so engine
	// operators can tell verification traffic from real users in logs.
	DefaultUserAgent = "kescan/1.0 (+https://github.com/kescan/kescan)"

	// DefaultMaxBodySize limits the maximum response body size to read.
	// Content-library listings with embedded article HTML can be large,
	// but anything beyond 10MB indicates a misbehaving endpoint.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
)

// Config holds all configuration options for kescan.
// It is populated from CLI flags and the optional .kescan file and passed
// through the application via dependency injection rather than global state.
type Config struct {
	// Targets is the list of Knowledge Engine base URLs to verify.
	// Must contain at least one http(s) URL.
	Targets []string

	// Timeout is the per-request timeout for each API call.
	Timeout time.Duration

	// JobTimeout is the wall-clock bound for waiting on one processing job.
	JobTimeout time.Duration

	// PollInterval is the delay between job status polls.
	PollInterval time.Duration

	// Suites restricts which check suites run. Empty means all suites.
	Suites []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// BatchSize is the number of concurrent verification runs when multiple
	// targets are given.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .kescan in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// TargetConfigs holds per-target configurations loaded from the config
	// file (auth credentials, suite selection, job timeouts).
	TargetConfigs *File

	// JSONReport enables JSON report output instead of human-readable text.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory path for storing the SQLite run database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save run results to the database.
	// Comparison against historical runs requires saved results.
	SaveToDB bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated to prevent memory exhaustion.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work against a local
// development engine. Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		JobTimeout:   DefaultJobTimeout,
		PollInterval: DefaultPollInterval,
		BatchSize:    DefaultBatchSize,
		UserAgent:    DefaultUserAgent,
		MaxBodySize:  DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for kescan.
// On Linux: ~/.local/share/kescan
// On macOS: ~/Library/Application Support/kescan
// On Windows: %LOCALAPPDATA%\kescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for kescan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
// This is called once after CLI parsing, before any checks begin.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.JobTimeout <= 0 {
		return ErrInvalidJobTimeout
	}

	// PollInterval must be positive; a zero interval would hammer the engine
	// with status requests in a tight loop.
	if c.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
