package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/webshepherd/webshepherd/internal/config"
	"github.com/webshepherd/webshepherd/internal/database"
	"github.com/webshepherd/webshepherd/internal/log"
	"github.com/webshepherd/webshepherd/internal/model"
	"github.com/webshepherd/webshepherd/internal/report"
	"github.com/webshepherd/webshepherd/internal/scanner"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url> [<url>...]",
		Short: "Scan web pages for WCAG accessibility issues",
		Long: `Scan fetches each URL and evaluates it against the WCAG 2.1 AA rule
catalogue: image alt text, page language, page title, form labels,
button names, link text, heading structure, duplicate IDs and ARIA
roles. Each page receives an accessibility score from 0 to 100.

Only public http(s) URLs are accepted; localhost and private network
addresses are rejected.

Examples:
  # Scan a single page
  webshepherd scan https://example.com

  # Scan multiple pages concurrently
  webshepherd scan https://example.com https://example.org

  # Output JSON report
  webshepherd scan --json https://example.com

  # Write a Markdown report to a file
  webshepherd scan --markdown -o report.md https://example.com

  # Use a custom configuration file
  webshepherd scan -c myconfig.yaml https://example.com

Configuration file (.webshepherd) example:
  timeout: 15s
  max_redirects: 3
  batch_size: 8
  user_agent: "MyCrawler/1.0"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Fetch bounds
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch, redirects included")
	cmd.Flags().IntP("max-redirects", "r", config.DefaultMaxRedirects,
		"Maximum redirect hops per fetch")
	cmd.Flags().Int64P("max-body-size", "s", config.DefaultMaxBodySize,
		"Maximum response body size in bytes")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for fetch requests")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent scans")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webshepherd in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not persist scan records to the local database")
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	for _, target := range cfg.Targets {
		if err := validateTargetURL(target); err != nil {
			return fmt.Errorf("invalid target %q: %w", target, err)
		}
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
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

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Flag values set explicitly win over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file, it must exist.
	// Otherwise a missing file just means defaults.
	found := config.FindConfigFile(configPath)
	if found != "" {
		file, err := config.LoadConfigFile(found)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", found, err)
		}
		if err := file.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", found, err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-redirects") {
		if cfg.MaxRedirects, err = cmd.Flags().GetInt("max-redirects"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("max-body-size") {
		if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("batch") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
			return nil, err
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

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	} else if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// validateTargetURL rejects targets that are not public http(s) URLs.
// Scanning loopback or private network addresses would turn the scanner
// into an SSRF primitive, so those are refused up front.
func validateTargetURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q (only http and https)", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("missing host")
	}
	if strings.EqualFold(host, "localhost") || strings.HasSuffix(strings.ToLower(host), ".localhost") {
		return errors.New("localhost is not allowed")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return fmt.Errorf("address %s is not publicly routable", host)
		}
	}
	return nil
}

// runScan executes the scan for all targets.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scan",
		"targets", len(cfg.Targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	s := scanner.New(cfg, scanner.WithLogger(logger))

	startTime := time.Now()
	var records []*model.ScanRecord
	if len(cfg.Targets) > 1 {
		fmt.Printf("Scanning %d URLs (concurrency: %d)...\n", len(cfg.Targets), cfg.BatchSize)
		records = s.ScanBatch(ctx, cfg.Targets, cfg.BatchSize)
	} else {
		fmt.Printf("Scanning %s...\n", cfg.Targets[0])
		records = []*model.ScanRecord{s.Scan(ctx, cfg.Targets[0])}
	}
	fmt.Printf("Scan completed in %s\n", time.Since(startTime).Round(time.Millisecond))

	for _, record := range records {
		if err := saveScanRecord(ctx, db, record, logger); err != nil {
			logger.Error("failed to save scan record", "scan_id", record.ScanID, "error", err)
		}
	}

	if err := outputReports(cfg, records); err != nil {
		return err
	}

	// Non-zero exit when any scan failed outright.
	for _, record := range records {
		if record.Status == model.StatusFailed {
			return fmt.Errorf("%d of %d scans failed", countFailed(records), len(records))
		}
	}
	return nil
}

// countFailed counts records in the Failed state.
func countFailed(records []*model.ScanRecord) int {
	failed := 0
	for _, record := range records {
		if record.Status == model.StatusFailed {
			failed++
		}
	}
	return failed
}

// outputReports writes the records in the requested format.
func outputReports(cfg *config.Config, records []*model.ScanRecord) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

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
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	var err error
	if len(records) == 1 {
		_, err = writer.Write(records[0])
	} else {
		_, err = writer.WriteBatch(records)
	}
	return err
}

// saveScanRecord saves the scan record to the database if enabled.
// If db is nil, this function is a no-op.
func saveScanRecord(ctx context.Context, db *database.ScanDB, record *model.ScanRecord, logger *slog.Logger) error {
	if db == nil {
		return nil
	}
	if err := db.SaveScanRecord(ctx, record); err != nil {
		return err
	}
	logger.Info("scan record saved", "scan_id", record.ScanID)
	return nil
}
