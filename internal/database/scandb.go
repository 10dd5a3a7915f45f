package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/webshepherd/webshepherd/internal/model"
)

// ScanDB provides SQLite-based storage for scan records and fleet-wide
// statistics.
//
// Design decision: findings ride along inside each scan row as JSON, but
// issue findings are additionally broken out into a findings table so the
// common-issues statistic is a plain GROUP BY instead of JSON surgery.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
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

// Open opens or creates a ScanDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "webshepherd.db")

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

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
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

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scan records store one terminal scan outcome each
	CREATE TABLE IF NOT EXISTS scans (
		scan_id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		score REAL,
		findings TEXT,
		total_checks INTEGER NOT NULL DEFAULT 0,
		passed_checks INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0,
		failures INTEGER NOT NULL DEFAULT 0,
		perceivable_issues INTEGER NOT NULL DEFAULT 0,
		operable_issues INTEGER NOT NULL DEFAULT 0,
		understandable_issues INTEGER NOT NULL DEFAULT 0,
		robust_issues INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		completed_at DATETIME,
		scan_duration_ms INTEGER,
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_url ON scans(url);
	CREATE INDEX IF NOT EXISTS idx_scans_status ON scans(status);
	CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);

	-- Issue findings broken out per scan for common-issue statistics
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL REFERENCES scans(scan_id) ON DELETE CASCADE,
		rule_code TEXT NOT NULL,
		severity TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_findings_scan ON findings(scan_id);
	CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule_code);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanRecord persists a terminal scan record. Saving is idempotent on
// scan_id: re-saving replaces the stored row and its findings.
func (sdb *ScanDB) SaveScanRecord(ctx context.Context, record *model.ScanRecord) error {
	if !record.Status.Terminal() {
		return fmt.Errorf("refusing to save non-terminal scan %s (status %s)", record.ScanID, record.Status)
	}

	findingsJSON, err := model.MarshalFindings(record.Findings)
	if err != nil {
		return err
	}

	tx, err := sdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	query := `
	INSERT INTO scans (
		scan_id, url, status, score, findings,
		total_checks, passed_checks, warnings, failures,
		perceivable_issues, operable_issues, understandable_issues, robust_issues,
		created_at, completed_at, scan_duration_ms, error_message
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(scan_id) DO UPDATE SET
		url = excluded.url,
		status = excluded.status,
		score = excluded.score,
		findings = excluded.findings,
		total_checks = excluded.total_checks,
		passed_checks = excluded.passed_checks,
		warnings = excluded.warnings,
		failures = excluded.failures,
		perceivable_issues = excluded.perceivable_issues,
		operable_issues = excluded.operable_issues,
		understandable_issues = excluded.understandable_issues,
		robust_issues = excluded.robust_issues,
		created_at = excluded.created_at,
		completed_at = excluded.completed_at,
		scan_duration_ms = excluded.scan_duration_ms,
		error_message = excluded.error_message
	`

	var completedAt any
	if record.CompletedAt != nil {
		completedAt = record.CompletedAt.UTC().Format(storedTimeFormat)
	}
	var durationMS any
	if record.DurationMS != nil {
		durationMS = *record.DurationMS
	}
	var score any
	if record.Score != nil {
		score = *record.Score
	}

	if _, err := tx.ExecContext(ctx, query,
		record.ScanID,
		record.URL,
		string(record.Status),
		score,
		findingsJSON,
		record.TotalChecks,
		record.PassedChecks,
		record.Warnings,
		record.Failures,
		record.PerceivableIssues,
		record.OperableIssues,
		record.UnderstandableIssues,
		record.RobustIssues,
		record.CreatedAt.UTC().Format(storedTimeFormat),
		completedAt,
		durationMS,
		record.ErrorMessage,
	); err != nil {
		return fmt.Errorf("failed to save scan record: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM findings WHERE scan_id = ?`, record.ScanID); err != nil {
		return fmt.Errorf("failed to clear findings: %w", err)
	}
	for _, f := range record.Findings {
		if !f.IsIssue() {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO findings (scan_id, rule_code, severity) VALUES (?, ?, ?)`,
			record.ScanID, f.RuleCode, f.Severity.String(),
		); err != nil {
			return fmt.Errorf("failed to save finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scan record: %w", err)
	}
	return nil
}

// GetScanRecord retrieves a scan record by its scan id.
// Returns nil without error when no such scan exists.
func (sdb *ScanDB) GetScanRecord(ctx context.Context, scanID string) (*model.ScanRecord, error) {
	query := `
	SELECT scan_id, url, status, score, findings,
	       total_checks, passed_checks, warnings, failures,
	       perceivable_issues, operable_issues, understandable_issues, robust_issues,
	       created_at, completed_at, scan_duration_ms, error_message
	FROM scans
	WHERE scan_id = ?
	`

	var record model.ScanRecord
	var status, createdAt string
	var score sql.NullFloat64
	var findingsJSON, completedAt, errorMessage sql.NullString
	var durationMS sql.NullInt64

	err := sdb.db.QueryRowContext(ctx, query, scanID).Scan(
		&record.ScanID,
		&record.URL,
		&status,
		&score,
		&findingsJSON,
		&record.TotalChecks,
		&record.PassedChecks,
		&record.Warnings,
		&record.Failures,
		&record.PerceivableIssues,
		&record.OperableIssues,
		&record.UnderstandableIssues,
		&record.RobustIssues,
		&createdAt,
		&completedAt,
		&durationMS,
		&errorMessage,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan record: %w", err)
	}

	record.Status, err = model.ParseScanStatus(status)
	if err != nil {
		return nil, err
	}
	if score.Valid {
		record.Score = &score.Float64
	}
	if findingsJSON.Valid {
		record.Findings, err = model.UnmarshalFindings(findingsJSON.String)
		if err != nil {
			return nil, err
		}
	}
	record.CreatedAt = parseTimestamp(createdAt)
	if completedAt.Valid && completedAt.String != "" {
		t := parseTimestamp(completedAt.String)
		record.CompletedAt = &t
	}
	if durationMS.Valid {
		record.DurationMS = &durationMS.Int64
	}
	if errorMessage.Valid {
		record.ErrorMessage = errorMessage.String
	}

	return &record, nil
}

// ListScanRecords returns the most recent scans, newest first.
func (sdb *ScanDB) ListScanRecords(ctx context.Context, limit int) ([]*model.ScanRecord, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
	SELECT scan_id FROM scans
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := sdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	records := make([]*model.ScanRecord, 0, len(ids))
	for _, id := range ids {
		record, err := sdb.GetScanRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		if record != nil {
			records = append(records, record)
		}
	}
	return records, nil
}

// CommonIssue is one entry of the common-issues ranking: a rule code and
// the number of distinct scans that flagged it.
type CommonIssue struct {
	RuleCode  string `json:"rule_code"`
	ScanCount int    `json:"scan_count"`
}

// Stats summarizes the whole scan history.
type Stats struct {
	// TotalScans counts every stored scan, failed ones included.
	TotalScans int `json:"total_scans"`

	// ScansToday counts scans created since the start of the current UTC day.
	ScansToday int `json:"scans_today"`

	// AverageScore averages the scores of complete scans. Zero when no
	// scan has completed yet.
	AverageScore float64 `json:"average_score"`

	// CommonIssues ranks rule codes by how many scans flagged them.
	CommonIssues []CommonIssue `json:"common_issues"`
}

// commonIssueLimit bounds the common-issues ranking.
const commonIssueLimit = 5

// Stats computes fleet-wide statistics over all stored scans.
func (sdb *ScanDB) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := sdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scans`,
	).Scan(&stats.TotalScans); err != nil {
		return nil, fmt.Errorf("failed to count scans: %w", err)
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour).Format(storedTimeFormat)
	if err := sdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scans WHERE created_at >= ?`, midnight,
	).Scan(&stats.ScansToday); err != nil {
		return nil, fmt.Errorf("failed to count today's scans: %w", err)
	}

	var avg sql.NullFloat64
	if err := sdb.db.QueryRowContext(ctx,
		`SELECT AVG(score) FROM scans WHERE status = ?`, string(model.StatusComplete),
	).Scan(&avg); err != nil {
		return nil, fmt.Errorf("failed to average scores: %w", err)
	}
	if avg.Valid {
		stats.AverageScore = avg.Float64
	}

	// A rule counts once per scan no matter how many findings it emitted.
	rows, err := sdb.db.QueryContext(ctx, `
	SELECT rule_code, COUNT(DISTINCT scan_id) AS scan_count
	FROM findings
	GROUP BY rule_code
	ORDER BY scan_count DESC, rule_code ASC
	LIMIT ?
	`, commonIssueLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query common issues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var issue CommonIssue
		if err := rows.Scan(&issue.RuleCode, &issue.ScanCount); err != nil {
			return nil, fmt.Errorf("failed to scan common issue: %w", err)
		}
		stats.CommonIssues = append(stats.CommonIssues, issue)
	}
	return stats, rows.Err()
}

// storedTimeFormat is a fixed-width RFC 3339 variant. Fixed width keeps
// string comparison in ORDER BY and range queries consistent with time
// order.
const storedTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	storedTimeFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
