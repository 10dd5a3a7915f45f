package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/webshepherd/webshepherd/internal/config"
	"github.com/webshepherd/webshepherd/internal/database"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics over all stored scans",
		Long: `Stats summarizes the local scan history: total scans, scans run
today, the average accessibility score of complete scans, and the rule
codes most often flagged across scans.`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output statistics as JSON")
	cmd.Flags().String("db-dir", "", "Database directory (default: XDG data directory)")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Stats never creates a database: no history means nothing to report.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no scan history found (run a scan first): %w", err)
	}
	defer db.Close()

	stats, err := db.Stats(cmd.Context())
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(stats)
	}

	fmt.Fprintf(out, "Total scans:    %d\n", stats.TotalScans)
	fmt.Fprintf(out, "Scans today:    %d\n", stats.ScansToday)
	fmt.Fprintf(out, "Average score:  %.1f\n", stats.AverageScore)
	if len(stats.CommonIssues) > 0 {
		fmt.Fprintln(out, "Common issues:")
		for _, issue := range stats.CommonIssues {
			fmt.Fprintf(out, "  %-25s flagged in %d scan(s)\n", issue.RuleCode, issue.ScanCount)
		}
	}
	return nil
}
