package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. The scan bounds mirror the limits the
// fetcher enforces as defense in depth: they bound one HTTP exchange,
// not the whole process.
const (
	// DefaultTimeout bounds the whole fetch exchange including redirects.
	// 10 seconds is generous for a single HTML document; anything slower
	// is more likely a tarpit than a real page.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRedirects is the redirect hop limit. Exceeding it is a
	// fetch failure, never a silent truncation of the redirect chain.
	DefaultMaxRedirects = 5

	// DefaultMaxBodySize is the response body limit in bytes. Documents
	// larger than this fail the scan rather than being truncated, because
	// truncated HTML produces misleading findings.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5 MiB

	// DefaultUserAgent identifies WebShepherd in HTTP requests. A
	// descriptive User-Agent lets site operators recognize scanner traffic.
	DefaultUserAgent = "WebShepherd/1.0 (WCAG Accessibility Checker; +https://github.com/webshepherd/webshepherd)"

	// DefaultBatchSize is the number of concurrent scans when multiple
	// URLs are given. Each scan owns its own fetch, document and record,
	// so concurrency is bounded only to be polite to the local network.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "webshepherd"
)

// Config holds all options for a WebShepherd run.
//
// Design decision: a single flat struct populated from CLI flags and the
// optional config file, passed via dependency injection. The fetch bounds
// in particular are deliberately per-Config rather than ambient globals so
// scans with different bounds can run concurrently without interference.
type Config struct {
	// Timeout is the wall-clock bound for one fetch exchange, redirects
	// included.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRedirects is the maximum number of redirect hops per fetch.
	MaxRedirects int `yaml:"max_redirects"`

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64 `yaml:"max_body_size"`

	// UserAgent is the User-Agent header sent with fetch requests.
	UserAgent string `yaml:"user_agent"`

	// BatchSize is the number of concurrent scans for multi-URL runs.
	BatchSize int `yaml:"batch_size"`

	// Verbose enables slog.LevelDebug output. When false, only info and
	// above are logged.
	Verbose bool `yaml:"-"`

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool `yaml:"-"`

	// MarkdownReport selects Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool `yaml:"-"`

	// ReportFile, when set, writes the report to this path instead of
	// stdout. Parent directories are created as needed.
	ReportFile string `yaml:"-"`

	// DBDir is the directory holding the SQLite database. Scan records
	// are persisted there; empty disables persistence.
	DBDir string `yaml:"db_dir"`

	// SaveToDB indicates whether terminal scan records are persisted.
	SaveToDB bool `yaml:"-"`

	// Targets is the list of URLs to scan.
	Targets []string `yaml:"-"`
}

// NewConfig creates a Config with default values.
//
// Design decision: a constructor instead of zero values because most
// defaults are non-zero, and the constructor documents what they are.
func NewConfig() *Config {
	return &Config{
		Timeout:      DefaultTimeout,
		MaxRedirects: DefaultMaxRedirects,
		MaxBodySize:  DefaultMaxBodySize,
		UserAgent:    DefaultUserAgent,
		BatchSize:    DefaultBatchSize,
	}
}

// Validate checks the configuration for inconsistent or unusable values.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("no target URLs specified")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("max redirects must not be negative, got %d", c.MaxRedirects)
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("max body size must be positive, got %d", c.MaxBodySize)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.JSONReport && c.MarkdownReport {
		return errors.New("--json and --markdown are mutually exclusive")
	}
	return nil
}

// XDGDataDir returns the XDG data directory for WebShepherd.
// On Linux: ~/.local/share/webshepherd
// On macOS: ~/Library/Application Support/webshepherd
// On Windows: %LOCALAPPDATA%\webshepherd
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
