package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kescan/kescan/internal/config"
	"github.com/kescan/kescan/internal/database"
	"github.com/kescan/kescan/internal/model"
	"github.com/spf13/cobra"
)

// Constants for result direction and summary messages.
const (
	resultDirectionRegressed = "regressed"
	resultDirectionImproved  = "improved"
	resultDirectionUnchanged = "unchanged"
	noFailuresMessage        = "All green"
)

// NewCompareCmd creates the compare command.
// This command compares verification runs stored in the database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [engine-url]",
		Short: "Compare verification runs with historical data",
		Long: `Compare displays differences between the current and previous verification runs.

This command retrieves historical run data from the database and shows:
- Regressions: checks that passed before and fail now
- Fixed checks: checks that failed before and pass now
- New and removed checks between the two runs

The comparison requires at least two runs in the database for the specified
engine. Use 'kescan check' to run verifications and save results.

Examples:
  # Compare latest two runs for an engine
  kescan compare http://engine.internal:8001

  # List all run history for an engine
  kescan compare --list http://engine.internal:8001

  # Compare with a specific historical run by ID
  kescan compare --with-run-id 5 http://engine.internal:8001

  # Compare runs since a specific date
  kescan compare --since "2026-01-01" http://engine.internal:8001

  # Output comparison in JSON format
  kescan compare --json http://engine.internal:8001

  # List all checked engines in the database
  kescan compare --list-targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List run history for the specified engine")
	cmd.Flags().BoolP("list-targets", "L", false,
		"List all checked engines in the database")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().StringP("since", "s", "",
		"Compare with the first run after this date (format: YYYY-MM-DD)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	// Handle --list-targets flag first (requires database but no target)
	listTargets, err := cmd.Flags().GetBool("list-targets")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database so validation failures
	// never hold a lock
	var target string
	if !listTargets {
		if len(args) == 0 {
			return errors.New("engine URL is required (use --list-targets to see available engines)")
		}
		target = strings.TrimRight(args[0], "/")
	}

	// Use XDG data directory for database
	dbDir := config.XDGDataDir()

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if listTargets {
		return listCheckedTargets(ctx, db)
	}

	listHistory, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listRunHistory(ctx, db, target)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	sinceDate, err := cmd.Flags().GetString("since")
	if err != nil {
		return err
	}

	return runComparison(ctx, db, target, withRunID, sinceDate, jsonOutput, markdownOutput)
}

// listCheckedTargets lists all engines that have run records in the database.
func listCheckedTargets(ctx context.Context, db *database.RunDB) error {
	targets, err := db.ListTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list targets: %w", err)
	}

	if len(targets) == 0 {
		fmt.Println("No checked engines found in the database.")
		fmt.Println("\nUse 'kescan check <engine-url>' to verify an engine.")
		return nil
	}

	fmt.Printf("Checked engines (%d):\n\n", len(targets))
	for _, target := range targets {
		fmt.Printf("  • %s\n", target)
	}
	fmt.Println("\nUse 'kescan compare --list <engine-url>' to see run history for an engine.")

	return nil
}

// listRunHistory lists all run records for a specific engine.
func listRunHistory(ctx context.Context, db *database.RunDB, target string) error {
	runs, err := db.GetRunHistoryWithMetadata(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(runs) == 0 {
		fmt.Printf("No run history found for %s\n", target)
		fmt.Println("\nUse 'kescan check' to verify this engine.")
		return nil
	}

	fmt.Printf("Run history for %s (%d runs):\n\n", target, len(runs))
	fmt.Printf("  %-6s  %-20s  %s\n", "ID", "Date", "Status Summary")
	fmt.Println("  " + strings.Repeat("-", 60))

	for _, meta := range runs {
		statusSummary := formatStatusSummary(meta.StatusSummary)
		fmt.Printf("  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			statusSummary,
		)
	}

	fmt.Println("\nUse 'kescan compare <engine-url>' to compare the latest two runs.")
	fmt.Println("Use 'kescan compare --with-run-id <id> <engine-url>' to compare with a specific run.")

	return nil
}

// formatStatusSummary formats the status summary map into a human-readable string.
func formatStatusSummary(summary map[string]int) string {
	if summary == nil {
		return "N/A"
	}

	var parts []string
	if v := summary["pass"]; v > 0 {
		parts = append(parts, fmt.Sprintf("P:%d", v))
	}
	if v := summary["fail"]; v > 0 {
		parts = append(parts, fmt.Sprintf("F:%d", v))
	}
	if v := summary["skip"]; v > 0 {
		parts = append(parts, fmt.Sprintf("S:%d", v))
	}
	if v := summary["error"]; v > 0 {
		parts = append(parts, fmt.Sprintf("E:%d", v))
	}

	if len(parts) == 0 {
		return noFailuresMessage
	}
	return strings.Join(parts, " ")
}

// runComparison performs the actual comparison between run reports.
func runComparison(ctx context.Context, db *database.RunDB, target string, withRunID int64, sinceDate string, jsonOutput, markdownOutput bool) error {
	reports, err := db.GetRunHistory(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to get run history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no run history found for %s", target)
	}

	if len(reports) < 2 && withRunID == 0 && sinceDate == "" {
		return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(reports))
	}

	// Latest report is always the current one
	currentReport := reports[0]
	var previousReport *model.CheckReport

	switch {
	case withRunID > 0:
		previousReport, err = db.GetReportByID(ctx, withRunID)
		if err != nil {
			return fmt.Errorf("failed to get run with ID %d: %w", withRunID, err)
		}
		if previousReport == nil {
			return fmt.Errorf("run with ID %d not found", withRunID)
		}
		if previousReport.Target != target {
			return fmt.Errorf("run ID %d belongs to %s, not %s", withRunID, previousReport.Target, target)
		}
	case sinceDate != "":
		parsedDate, err := time.Parse("2006-01-02", sinceDate)
		if err != nil {
			return fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
		}

		// Reports are sorted newest first, so iterate in reverse to find
		// the oldest run at or after the date
		for i := len(reports) - 1; i >= 0; i-- {
			r := reports[i]
			if r.DateChecked.After(parsedDate) || r.DateChecked.Equal(parsedDate) {
				previousReport = r
				break
			}
		}
		if previousReport == nil {
			return fmt.Errorf("no runs found since %s", sinceDate)
		}
		if previousReport == currentReport {
			return fmt.Errorf("only one run found since %s; at least 2 runs are required for comparison", sinceDate)
		}
	default:
		previousReport = reports[1]
	}

	comparison := compareReports(previousReport, currentReport)

	if jsonOutput {
		return outputComparisonJSON(comparison)
	}
	if markdownOutput {
		return outputComparisonMarkdown(comparison)
	}
	return outputComparisonText(comparison)
}

// ComparisonResult holds the result of comparing two verification runs.
type ComparisonResult struct {
	// Target is the checked engine base URL.
	Target string `json:"target"`

	// PreviousRun contains metadata about the previous run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the current run.
	CurrentRun RunSummary `json:"current_run"`

	// Regressions contains checks that passed before and fail or error now.
	Regressions []model.CheckResult `json:"regressions,omitempty"`

	// Fixed contains checks that failed or errored before and pass now.
	Fixed []model.CheckResult `json:"fixed,omitempty"`

	// NewChecks contains checks present only in the current run.
	NewChecks []model.CheckResult `json:"new_checks,omitempty"`

	// RemovedChecks contains checks present only in the previous run.
	RemovedChecks []model.CheckResult `json:"removed_checks,omitempty"`

	// UnchangedCount is the number of checks with the same outcome.
	UnchangedCount int `json:"unchanged_count"`

	// Change describes the overall movement between runs.
	Change ResultChange `json:"change"`
}

// RunSummary contains metadata about one run for comparison display.
type RunSummary struct {
	// DateChecked is when the run was performed.
	DateChecked time.Time `json:"date_checked"`

	// EngineVersion is the version the engine reported during the run.
	EngineVersion string `json:"engine_version,omitempty"`

	// TotalChecks is the total number of checks in this run.
	TotalChecks int `json:"total_checks"`

	// PassCount is the number of passing checks.
	PassCount int `json:"pass_count"`

	// FailCount is the number of failed checks.
	FailCount int `json:"fail_count"`

	// SkipCount is the number of skipped checks.
	SkipCount int `json:"skip_count"`

	// ErrorCount is the number of errored checks.
	ErrorCount int `json:"error_count"`
}

// ResultChange describes the movement in outcomes between runs.
type ResultChange struct {
	// Direction is "improved", "regressed", or "unchanged".
	Direction string `json:"direction"`

	// PassDelta is the change in passing check count.
	PassDelta int `json:"pass_delta"`

	// FailDelta is the change in failed check count.
	FailDelta int `json:"fail_delta"`

	// SkipDelta is the change in skipped check count.
	SkipDelta int `json:"skip_delta"`

	// ErrorDelta is the change in errored check count.
	ErrorDelta int `json:"error_delta"`
}

// compareReports compares two run reports and generates a comparison result.
func compareReports(previous, current *model.CheckReport) *ComparisonResult {
	result := &ComparisonResult{
		Target:      current.Target,
		PreviousRun: summarizeRun(previous),
		CurrentRun:  summarizeRun(current),
	}

	previousResults := make(map[string]model.CheckResult)
	currentResults := make(map[string]model.CheckResult)

	for _, r := range previous.Results {
		previousResults[checkKey(r)] = r
	}
	for _, r := range current.Results {
		currentResults[checkKey(r)] = r
	}

	for key, cur := range currentResults {
		prev, existed := previousResults[key]
		if !existed {
			result.NewChecks = append(result.NewChecks, cur)
			continue
		}

		switch {
		case !prev.Status.IsTerminalFailure() && cur.Status.IsTerminalFailure():
			result.Regressions = append(result.Regressions, cur)
		case prev.Status.IsTerminalFailure() && cur.Status == model.StatusPass:
			result.Fixed = append(result.Fixed, cur)
		default:
			result.UnchangedCount++
		}
	}

	for key, prev := range previousResults {
		if _, exists := currentResults[key]; !exists {
			result.RemovedChecks = append(result.RemovedChecks, prev)
		}
	}

	result.Change = calculateResultChange(result.PreviousRun, result.CurrentRun)

	return result
}

// summarizeRun extracts comparison metadata from a full report.
func summarizeRun(r *model.CheckReport) RunSummary {
	return RunSummary{
		DateChecked:   r.DateChecked,
		EngineVersion: r.EngineVersion,
		TotalChecks:   r.TotalChecks(),
		PassCount:     r.PassCount,
		FailCount:     r.FailCount,
		SkipCount:     r.SkipCount,
		ErrorCount:    r.ErrorCount,
	}
}

// checkKey generates a unique key for a check result for comparison purposes.
func checkKey(r model.CheckResult) string {
	return r.Suite + "|" + r.Type
}

// calculateResultChange calculates the movement between two runs.
func calculateResultChange(previous, current RunSummary) ResultChange {
	change := ResultChange{
		PassDelta:  current.PassCount - previous.PassCount,
		FailDelta:  current.FailCount - previous.FailCount,
		SkipDelta:  current.SkipCount - previous.SkipCount,
		ErrorDelta: current.ErrorCount - previous.ErrorCount,
	}

	// Errors weigh more than assertion failures; skips barely count
	previousScore := previous.ErrorCount*50 + previous.FailCount*10 + previous.SkipCount
	currentScore := current.ErrorCount*50 + current.FailCount*10 + current.SkipCount

	switch {
	case currentScore < previousScore:
		change.Direction = resultDirectionImproved
	case currentScore > previousScore:
		change.Direction = resultDirectionRegressed
	default:
		change.Direction = resultDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(result *ComparisonResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(result *ComparisonResult) error {
	fmt.Printf("# Run Comparison: %s\n\n", result.Target)

	fmt.Println("## Summary")
	fmt.Printf("\n**Status:** %s\n\n", formatResultDirection(result.Change.Direction))

	fmt.Println("| Metric | Previous | Current | Change |")
	fmt.Println("|--------|----------|---------|--------|")
	fmt.Printf("| Date | %s | %s | - |\n",
		result.PreviousRun.DateChecked.Format("2006-01-02 15:04"),
		result.CurrentRun.DateChecked.Format("2006-01-02 15:04"))
	fmt.Printf("| Engine Version | %s | %s | - |\n",
		orDash(result.PreviousRun.EngineVersion),
		orDash(result.CurrentRun.EngineVersion))
	fmt.Printf("| Pass | %d | %d | %s |\n",
		result.PreviousRun.PassCount,
		result.CurrentRun.PassCount,
		formatDelta(result.Change.PassDelta))
	fmt.Printf("| Fail | %d | %d | %s |\n",
		result.PreviousRun.FailCount,
		result.CurrentRun.FailCount,
		formatDelta(result.Change.FailDelta))
	fmt.Printf("| Skip | %d | %d | %s |\n",
		result.PreviousRun.SkipCount,
		result.CurrentRun.SkipCount,
		formatDelta(result.Change.SkipDelta))
	fmt.Printf("| Error | %d | %d | %s |\n",
		result.PreviousRun.ErrorCount,
		result.CurrentRun.ErrorCount,
		formatDelta(result.Change.ErrorDelta))
	fmt.Printf("| **Total** | **%d** | **%d** | **%s** |\n",
		result.PreviousRun.TotalChecks,
		result.CurrentRun.TotalChecks,
		formatDelta(result.CurrentRun.TotalChecks-result.PreviousRun.TotalChecks))

	if len(result.Regressions) > 0 {
		fmt.Printf("\n## Regressions (%d)\n\n", len(result.Regressions))
		for _, r := range result.Regressions {
			fmt.Printf("- **[%s]** %s (%s)\n", r.SeverityText, r.Name, r.Suite)
			if r.Detail != "" {
				fmt.Printf("  - Detail: `%s`\n", r.Detail)
			}
		}
	}

	if len(result.Fixed) > 0 {
		fmt.Printf("\n## Fixed Checks (%d)\n\n", len(result.Fixed))
		for _, r := range result.Fixed {
			fmt.Printf("- ~~**[%s]** %s (%s)~~\n", r.SeverityText, r.Name, r.Suite)
		}
	}

	if len(result.NewChecks) > 0 {
		fmt.Printf("\n## New Checks (%d)\n\n", len(result.NewChecks))
		for _, r := range result.NewChecks {
			fmt.Printf("- [%s] %s (%s)\n", r.StatusText, r.Name, r.Suite)
		}
	}

	if len(result.RemovedChecks) > 0 {
		fmt.Printf("\n## Removed Checks (%d)\n\n", len(result.RemovedChecks))
		for _, r := range result.RemovedChecks {
			fmt.Printf("- %s (%s)\n", r.Name, r.Suite)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\n---\n\n*%d checks unchanged*\n", result.UnchangedCount)
	}

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(result *ComparisonResult) error {
	fmt.Printf("Run Comparison: %s\n", result.Target)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nStatus: %s\n", formatResultDirection(result.Change.Direction))

	fmt.Printf("\nPrevious run: %s (engine %s)\n",
		result.PreviousRun.DateChecked.Format("2006-01-02 15:04:05"),
		orDash(result.PreviousRun.EngineVersion))
	fmt.Printf("Current run:  %s (engine %s)\n",
		result.CurrentRun.DateChecked.Format("2006-01-02 15:04:05"),
		orDash(result.CurrentRun.EngineVersion))

	fmt.Println("\nCheck Summary:")
	fmt.Printf("  %-10s  %-10s  %-10s  %-10s\n", "Status", "Previous", "Current", "Change")
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Pass",
		result.PreviousRun.PassCount, result.CurrentRun.PassCount,
		formatDelta(result.Change.PassDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Fail",
		result.PreviousRun.FailCount, result.CurrentRun.FailCount,
		formatDelta(result.Change.FailDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Skip",
		result.PreviousRun.SkipCount, result.CurrentRun.SkipCount,
		formatDelta(result.Change.SkipDelta))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Error",
		result.PreviousRun.ErrorCount, result.CurrentRun.ErrorCount,
		formatDelta(result.Change.ErrorDelta))
	fmt.Println("  " + strings.Repeat("-", 45))
	fmt.Printf("  %-10s  %-10d  %-10d  %-10s\n", "Total",
		result.PreviousRun.TotalChecks, result.CurrentRun.TotalChecks,
		formatDelta(result.CurrentRun.TotalChecks-result.PreviousRun.TotalChecks))

	if len(result.Regressions) > 0 {
		fmt.Printf("\nRegressions (%d):\n", len(result.Regressions))
		for _, r := range result.Regressions {
			fmt.Printf("  [+] [%s] %s (%s)\n", r.SeverityText, r.Name, r.Suite)
			if r.Detail != "" {
				fmt.Printf("      Detail: %s\n", r.Detail)
			}
		}
	}

	if len(result.Fixed) > 0 {
		fmt.Printf("\nFixed Checks (%d):\n", len(result.Fixed))
		for _, r := range result.Fixed {
			fmt.Printf("  [-] [%s] %s (%s)\n", r.SeverityText, r.Name, r.Suite)
		}
	}

	if len(result.NewChecks) > 0 {
		fmt.Printf("\nNew Checks (%d):\n", len(result.NewChecks))
		for _, r := range result.NewChecks {
			fmt.Printf("  [*] [%s] %s (%s)\n", r.StatusText, r.Name, r.Suite)
		}
	}

	if len(result.RemovedChecks) > 0 {
		fmt.Printf("\nRemoved Checks (%d):\n", len(result.RemovedChecks))
		for _, r := range result.RemovedChecks {
			fmt.Printf("  [x] %s (%s)\n", r.Name, r.Suite)
		}
	}

	if result.UnchangedCount > 0 {
		fmt.Printf("\nUnchanged: %d checks\n", result.UnchangedCount)
	}

	return nil
}

// formatResultDirection formats the change direction for display.
func formatResultDirection(direction string) string {
	switch direction {
	case resultDirectionImproved:
		return "IMPROVED (fewer failures)"
	case resultDirectionRegressed:
		return "REGRESSED (more failures)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}

// orDash returns the value or "-" when empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
