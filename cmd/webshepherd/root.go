package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for WebShepherd.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webshepherd",
		Short: "WCAG accessibility scanner for web pages",
		Long: `WebShepherd scans public web pages for WCAG 2.1 AA accessibility issues.

It fetches each page over HTTP, evaluates a fixed catalogue of checks
(image alt text, page language, form labels, heading structure, ARIA
roles and more), and produces a scored report per page.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewStatsCmd())
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
