package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/kescan/kescan/internal/checks"
	"github.com/kescan/kescan/internal/config"
	"github.com/kescan/kescan/internal/database"
	"github.com/kescan/kescan/internal/engine"
	"github.com/kescan/kescan/internal/log"
	"github.com/kescan/kescan/internal/model"
	"github.com/kescan/kescan/internal/pipeline"
	"github.com/kescan/kescan/internal/report"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [engine-url...]",
		Short: "Verify a Knowledge Engine deployment",
		Long: `Check runs the verification suites against one or more running
Knowledge Engine deployments.

Each run submits known source documents through the processing endpoints,
polls the resulting jobs to completion, and asserts on:
- Engine reachability and advertised features
- Document processing, upload, and training submission paths
- Chunking of multi-topic documents into per-topic articles
- Generated HTML structure (headings, anchors, lists, code, figures)
- QA validation reports, style diagnostics, and versioning records
- The human-review workflow (approve, reject, rerun, media)

Examples:
  # Check the default local engine (http://127.0.0.1:8001)
  kescan check

  # Check a specific engine
  kescan check http://engine.internal:8001

  # Check several engines concurrently
  kescan check http://a:8001 http://b:8001 http://c:8001

  # Run only the processing and chunking suites
  kescan check --suites processing,chunking http://engine.internal:8001

  # Output JSON report
  kescan check --json http://engine.internal:8001

  # Use a custom configuration file
  kescan check -c myconfig.yaml http://engine.internal:8001

Configuration file (.kescan) example:
  targets:
    http://engine.internal:8001:
      authToken: "secret-token"
      headers:
        X-Env: "staging"
      jobTimeoutSeconds: 600`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Check behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout for each API call")
	cmd.Flags().DurationP("job-timeout", "T", config.DefaultJobTimeout,
		"Timeout for waiting on one asynchronous processing job")
	cmd.Flags().DurationP("poll-interval", "p", config.DefaultPollInterval,
		"Delay between job status polls")
	cmd.Flags().StringSliceP("suites", "s", nil,
		"Comma-separated list of suites to run (default: all)")

	// Batch flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent target checks")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .kescan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	cfg.Verbose = getVerboseFlag(cmd)
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCheck(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.JobTimeout, err = cmd.Flags().GetDuration("job-timeout")
	if err != nil {
		return nil, err
	}

	cfg.PollInterval, err = cmd.Flags().GetDuration("poll-interval")
	if err != nil {
		return nil, err
	}

	cfg.Suites, err = cmd.Flags().GetStringSlice("suites")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-target configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.TargetConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.TargetConfigs = &config.File{
			Targets: make(map[string]config.TargetConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are engine base URLs; default to the local engine
	cfg.Targets = args
	if len(cfg.Targets) == 0 {
		cfg.Targets = []string{config.DefaultBaseURL}
	}

	return cfg, nil
}

// runCheck executes the verification run.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting verification",
		"targets", cfg.Targets,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	var failed int
	var err error
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		failed, err = runBatchCheck(ctx, cfg, db, logger)
	} else {
		failed, err = runSequentialCheck(ctx, cfg, db, logger)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("verification failed for %d of %d target(s)", failed, len(cfg.Targets))
	}
	return nil
}

// runSequentialCheck verifies targets one at a time.
// Returns the number of targets whose run did not pass.
func runSequentialCheck(ctx context.Context, cfg *config.Config, db *database.RunDB, logger *slog.Logger) (int, error) {
	failed := 0
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return failed, ctx.Err()
		default:
		}

		p, err := createPipelineForTarget(target, cfg, logger)
		if err != nil {
			return failed, err
		}

		checkReport := model.NewCheckReport(target)

		fmt.Printf("Checking %s...\n", target)
		startTime := time.Now()

		if err := p.Execute(ctx, checkReport); err != nil {
			logger.Error("check failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Check error for %s: %v\n", target, err)
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Check completed in %s\n\n", elapsed.Round(time.Millisecond))

		if err := outputReport(cfg, checkReport); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if err := saveCheckReport(ctx, db, checkReport, logger); err != nil {
			logger.Error("failed to save check report", "target", target, "error", err)
		}

		if !checkReport.Passed() {
			failed++
		}
	}

	return failed, nil
}

// runBatchCheck verifies multiple targets concurrently using BatchProcessor.
// Returns the number of targets whose run did not pass.
func runBatchCheck(ctx context.Context, cfg *config.Config, db *database.RunDB, logger *slog.Logger) (int, error) {
	fmt.Printf("Starting batch check of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(
		func(target string) (*pipeline.Pipeline, error) {
			return createPipelineForTarget(target, cfg, logger)
		},
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	failed := 0
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, func(checkReport *model.CheckReport, index int) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("[%d/%d] Check completed: %s\n", index+1, len(cfg.Targets), checkReport.Target)

		if err := outputReport(cfg, checkReport); err != nil {
			logger.Error("report failed", "target", checkReport.Target, "error", err)
		}

		if err := saveCheckReport(ctx, db, checkReport, logger); err != nil {
			logger.Error("failed to save check report", "target", checkReport.Target, "error", err)
		}

		if !checkReport.Passed() {
			failed++
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch check completed in %s\n", elapsed.Round(time.Millisecond))

	return failed, err
}

// createPipelineForTarget builds the client, suites, and pipeline for one
// target, applying per-target config overrides.
func createPipelineForTarget(target string, cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	var targetConfig config.TargetConfig
	if cfg.TargetConfigs != nil {
		targetConfig = cfg.TargetConfigs.GetTargetConfig(target)
	}

	clientOpts := []engine.Option{
		engine.WithTimeout(cfg.Timeout),
		engine.WithUserAgent(cfg.UserAgent),
		engine.WithMaxBodySize(cfg.MaxBodySize),
		engine.WithPollInterval(cfg.PollInterval),
	}
	if targetConfig.AuthToken != "" {
		clientOpts = append(clientOpts, engine.WithAuthToken(targetConfig.AuthToken))
	}
	if len(targetConfig.Headers) > 0 {
		clientOpts = append(clientOpts, engine.WithHeaders(targetConfig.Headers))
	}

	client, err := engine.New(target, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("invalid engine URL %q: %w", target, err)
	}

	jobTimeout := cfg.JobTimeout
	if targetConfig.JobTimeoutSeconds > 0 {
		jobTimeout = time.Duration(targetConfig.JobTimeoutSeconds) * time.Second
	}

	// Per-target suite selection overrides the global one
	suiteNames := cfg.Suites
	if len(targetConfig.Suites) > 0 {
		suiteNames = targetConfig.Suites
	}

	suites, err := checks.Select(suiteNames, checks.Options{JobTimeout: jobTimeout})
	if err != nil {
		return nil, err
	}

	return pipeline.DefaultPipeline(client, suites,
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	), nil
}

// outputReport outputs the check report in the requested format.
func outputReport(cfg *config.Config, checkReport *model.CheckReport) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may carry engine details only the owner should read
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(checkReport)
	return err
}

// saveCheckReport saves the check report to the database if enabled.
// If db is nil, this function is a no-op.
func saveCheckReport(ctx context.Context, db *database.RunDB, checkReport *model.CheckReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	// A cancelled run context must not prevent persisting partial results
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}

	if err := db.SaveCheckReport(ctx, checkReport); err != nil {
		return fmt.Errorf("failed to save check report: %w", err)
	}

	logger.Info("check report saved to database", "target", checkReport.Target)
	return nil
}
