package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/webshepherd/webshepherd/internal/config"
	"github.com/webshepherd/webshepherd/internal/fetcher"
	"github.com/webshepherd/webshepherd/internal/htmldoc"
	"github.com/webshepherd/webshepherd/internal/model"
	"github.com/webshepherd/webshepherd/internal/rules"
)

// Fetcher retrieves the document text for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Scanner orchestrates one scan: fetch, parse, evaluate, aggregate. It is
// the sole mutator of the scan records it creates.
type Scanner struct {
	fetcher Fetcher
	engine  *rules.Engine
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFetcher replaces the HTTP fetcher, typically with a test double.
func WithFetcher(f Fetcher) Option {
	return func(s *Scanner) {
		s.fetcher = f
	}
}

// WithLogger sets a custom logger for the scanner.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner from the given configuration with the standard
// rule catalogue.
func New(cfg *config.Config, opts ...Option) *Scanner {
	s := &Scanner{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.fetcher == nil {
		s.fetcher = fetcher.New(cfg, fetcher.WithLogger(s.logger))
	}
	s.engine = rules.NewEngine(rules.Catalogue(), rules.WithLogger(s.logger))
	return s
}

// Scan runs the full pipeline for one URL and always returns a terminal
// record: Complete with findings and a score, or Failed with an error
// message. Fetch errors, parse errors and rule evaluation faults all
// resolve to a Failed record rather than a Go error, so batch callers can
// treat every scan uniformly.
func (s *Scanner) Scan(ctx context.Context, rawURL string) *model.ScanRecord {
	record := model.NewScanRecord(newScanID(), rawURL)

	logger := s.logger.With("scan_id", record.ScanID, "url", rawURL)
	logger.Info("scan started")

	text, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		record.Fail(err, s.now())
		return record
	}

	doc, err := htmldoc.Parse(text, logger)
	if err != nil {
		logger.Error("parse failed", "error", err)
		record.Fail(fmt.Errorf("failed to parse document: %w", err), s.now())
		return record
	}

	findings, err := s.engine.Run(doc)
	if err != nil {
		logger.Error("rule evaluation faulted", "error", err)
		record.Fail(err, s.now())
		return record
	}

	summary := rules.Summarize(findings)
	record.Complete(findings, summary, s.now())

	logger.Info("scan complete",
		"score", summary.Score,
		"passed", summary.Passed,
		"warnings", summary.Warnings,
		"failures", summary.Failures,
		"duration_ms", *record.DurationMS,
	)
	return record
}

// newScanID returns a fresh 12 character identifier derived from a random
// UUID. Short enough to read aloud, long enough to never collide in
// practice.
func newScanID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
