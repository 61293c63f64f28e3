// Package store persists inventory records, operation telemetry, and
// recommendation history in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gplima89/filetier/pkg/models"
	"github.com/gplima89/filetier/pkg/telemetry"
)

const bytesPerGiB = float64(1 << 30)

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

const createFileRecords = `
CREATE TABLE IF NOT EXISTS file_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	storage_account TEXT NOT NULL,
	file_share TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_name TEXT NOT NULL,
	file_extension TEXT NOT NULL,
	size_bytes INTEGER NOT NULL,
	last_modified DATETIME,
	created DATETIME,
	age_days INTEGER NOT NULL,
	file_category TEXT NOT NULL,
	age_bucket TEXT NOT NULL,
	size_bucket TEXT NOT NULL,
	execution_id TEXT NOT NULL,
	scanned_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_files_share ON file_records(storage_account, file_share);
CREATE INDEX IF NOT EXISTS idx_files_execution ON file_records(execution_id);
`

const createOperationCounts = `
CREATE TABLE IF NOT EXISTS operation_counts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	storage_account TEXT NOT NULL,
	file_share TEXT NOT NULL,
	operation TEXT NOT NULL,
	count INTEGER NOT NULL,
	bytes_read INTEGER NOT NULL DEFAULT 0,
	bytes_written INTEGER NOT NULL DEFAULT 0,
	observed_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_ops_share_time ON operation_counts(storage_account, file_share, observed_at);
`

const createRecommendations = `
CREATE TABLE IF NOT EXISTS recommendations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	storage_account TEXT NOT NULL,
	file_share TEXT NOT NULL,
	current_tier TEXT NOT NULL,
	recommended_tier TEXT NOT NULL,
	current_cost REAL NOT NULL,
	recommended_cost REAL NOT NULL,
	monthly_savings REAL NOT NULL,
	yearly_savings REAL NOT NULL,
	reason TEXT NOT NULL,
	action_needed INTEGER NOT NULL,
	approximate INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recs_share ON recommendations(storage_account, file_share);
`

// Open opens the database at dbPath and runs auto-migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	for _, stmt := range []string{createFileRecords, createOperationCounts, createRecommendations} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate store db: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// RecordFiles inserts a batch of inventory records in one transaction.
func (s *Store) RecordFiles(ctx context.Context, records []models.FileRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO file_records
		 (storage_account, file_share, file_path, file_name, file_extension,
		  size_bytes, last_modified, created, age_days, file_category,
		  age_bucket, size_bucket, execution_id, scanned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			r.StorageAccount, r.FileShare, r.FilePath, r.FileName, r.FileExtension,
			r.SizeBytes, r.LastModified, r.Created, r.AgeDays, r.FileCategory,
			r.AgeBucket, r.SizeBucket, r.ExecutionID, r.ScannedAt,
		); err != nil {
			return fmt.Errorf("insert file record: %w", err)
		}
	}
	return tx.Commit()
}

// ShareUsedGiB returns the total inventoried capacity of a share in GiB.
func (s *Store) ShareUsedGiB(ctx context.Context, account, share string) (float64, error) {
	var bytes int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(size_bytes), 0) FROM file_records
		 WHERE storage_account = ? AND file_share = ?`,
		account, share,
	).Scan(&bytes)
	if err != nil {
		return 0, fmt.Errorf("share used capacity: %w", err)
	}
	return float64(bytes) / bytesPerGiB, nil
}

// CategorySummary aggregates inventory by file category.
type CategorySummary struct {
	Category string
	Files    int64
	Bytes    int64
}

// ShareSummary returns per-category file counts and sizes for a share.
func (s *Store) ShareSummary(ctx context.Context, account, share string) ([]CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_category, COUNT(*), COALESCE(SUM(size_bytes), 0)
		 FROM file_records WHERE storage_account = ? AND file_share = ?
		 GROUP BY file_category ORDER BY SUM(size_bytes) DESC`,
		account, share,
	)
	if err != nil {
		return nil, fmt.Errorf("share summary: %w", err)
	}
	defer rows.Close()

	var summaries []CategorySummary
	for rows.Next() {
		var c CategorySummary
		if err := rows.Scan(&c.Category, &c.Files, &c.Bytes); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summaries = append(summaries, c)
	}
	return summaries, rows.Err()
}

// FileRecordsPage returns one page of inventory records for export.
func (s *Store) FileRecordsPage(ctx context.Context, limit, offset int) ([]models.FileRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT storage_account, file_share, file_path, file_name, file_extension,
		        size_bytes, last_modified, created, age_days, file_category,
		        age_bucket, size_bucket, execution_id, scanned_at
		 FROM file_records ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("page file records: %w", err)
	}
	defer rows.Close()

	var records []models.FileRecord
	for rows.Next() {
		var r models.FileRecord
		var modified, created sql.NullTime
		if err := rows.Scan(
			&r.StorageAccount, &r.FileShare, &r.FilePath, &r.FileName, &r.FileExtension,
			&r.SizeBytes, &modified, &created, &r.AgeDays, &r.FileCategory,
			&r.AgeBucket, &r.SizeBucket, &r.ExecutionID, &r.ScannedAt,
		); err != nil {
			return nil, fmt.Errorf("scan file record: %w", err)
		}
		r.LastModified = modified.Time
		r.Created = created.Time
		records = append(records, r)
	}
	return records, rows.Err()
}

// OperationRow is one imported telemetry observation.
type OperationRow struct {
	StorageAccount string
	FileShare      string
	Operation      string
	Count          int64
	BytesRead      int64
	BytesWritten   int64
	ObservedAt     time.Time
}

// ImportOperations inserts telemetry rows in one transaction.
func (s *Store) ImportOperations(ctx context.Context, ops []OperationRow) error {
	if len(ops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO operation_counts
		 (storage_account, file_share, operation, count, bytes_read, bytes_written, observed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, op := range ops {
		if _, err := stmt.ExecContext(ctx,
			op.StorageAccount, op.FileShare, op.Operation,
			op.Count, op.BytesRead, op.BytesWritten, op.ObservedAt,
		); err != nil {
			return fmt.Errorf("insert operation row: %w", err)
		}
	}
	return tx.Commit()
}

// ShareOperations returns raw per-operation counts for a share over the
// trailing window. It implements telemetry.Source.
func (s *Store) ShareOperations(ctx context.Context, account, share string, windowDays int) (telemetry.RawWindow, error) {
	if windowDays < 1 {
		windowDays = 1
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays)

	rows, err := s.db.QueryContext(ctx,
		`SELECT operation, COALESCE(SUM(count), 0),
		        COALESCE(SUM(bytes_read), 0), COALESCE(SUM(bytes_written), 0)
		 FROM operation_counts
		 WHERE storage_account = ? AND file_share = ? AND observed_at >= ?
		 GROUP BY operation`,
		account, share, cutoff,
	)
	if err != nil {
		return telemetry.RawWindow{}, fmt.Errorf("share operations: %w", err)
	}
	defer rows.Close()

	w := telemetry.RawWindow{
		Counts:     make(map[string]int64),
		WindowDays: windowDays,
	}
	for rows.Next() {
		var op string
		var count, bytesRead, bytesWritten int64
		if err := rows.Scan(&op, &count, &bytesRead, &bytesWritten); err != nil {
			return telemetry.RawWindow{}, fmt.Errorf("scan operation row: %w", err)
		}
		w.Counts[op] += count
		w.BytesRead += bytesRead
		w.BytesWritten += bytesWritten
	}
	return w, rows.Err()
}

// SaveRecommendation appends a recommendation to the audit history.
func (s *Store) SaveRecommendation(ctx context.Context, rec models.Recommendation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recommendations
		 (storage_account, file_share, current_tier, recommended_tier,
		  current_cost, recommended_cost, monthly_savings, yearly_savings,
		  reason, action_needed, approximate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.StorageAccount, rec.Share, string(rec.CurrentTier), string(rec.RecommendedTier),
		rec.CurrentCost, rec.RecommendedCost, rec.MonthlySavings, rec.YearlySavings,
		rec.Reason, rec.ActionNeeded, rec.Approximate, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save recommendation: %w", err)
	}
	return nil
}

// ListRecommendations returns saved recommendations, optionally filtered by
// storage account, newest first.
func (s *Store) ListRecommendations(ctx context.Context, account string) ([]models.Recommendation, error) {
	query := `SELECT storage_account, file_share, current_tier, recommended_tier,
	                 current_cost, recommended_cost, monthly_savings, yearly_savings,
	                 reason, action_needed, approximate
	          FROM recommendations`
	var args []any
	if account != "" {
		query += ` WHERE storage_account = ?`
		args = append(args, account)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []models.Recommendation
	for rows.Next() {
		var r models.Recommendation
		var current, recommended string
		if err := rows.Scan(
			&r.StorageAccount, &r.Share, &current, &recommended,
			&r.CurrentCost, &r.RecommendedCost, &r.MonthlySavings, &r.YearlySavings,
			&r.Reason, &r.ActionNeeded, &r.Approximate,
		); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		r.CurrentTier = models.StorageTier(current)
		r.RecommendedTier = models.StorageTier(recommended)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
