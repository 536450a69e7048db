// Package main provides the entry point for the kescan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for kescan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kescan",
		Short: "Black-box verification tool for Knowledge Engine deployments",
		Long: `kescan verifies a running Knowledge Engine from the outside.
It submits known source documents, polls the resulting processing jobs, and
asserts on the articles, diagnostics, and review state the engine produces.

Run results can be stored locally and compared across engine versions to
catch regressions.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
