// Package inventory walks file shares and produces inventory records.
package inventory

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gplima89/filetier/pkg/models"
)

// Entry is one item in a share directory listing.
type Entry struct {
	Name         string
	IsDirectory  bool
	SizeBytes    int64
	LastModified time.Time
	Created      time.Time
}

// ShareClient is the file-share data plane. Implementations wrap a storage
// SDK; the scanner only ever lists.
type ShareClient interface {
	// ListShares returns the share names in the storage account.
	ListShares(ctx context.Context) ([]string, error)
	// ListDirectory returns the entries of one directory. An empty dir
	// names the share root.
	ListDirectory(ctx context.Context, share, dir string) ([]Entry, error)
}

// BatchSink receives completed batches of inventory records.
type BatchSink interface {
	RecordFiles(ctx context.Context, records []models.FileRecord) error
}

// Options tunes a scan.
type Options struct {
	BatchSize       int
	ExcludePatterns []string
}

// DefaultExcludePatterns matches scratch files that add noise to reports.
var DefaultExcludePatterns = []string{"*.tmp", "~$*", ".DS_Store", "Thumbs.db"}

const defaultBatchSize = 500

// Scanner inventories the shares of one storage account.
type Scanner struct {
	account string
	client  ShareClient
	sink    BatchSink
	opts    Options
}

// NewScanner creates a Scanner. Zero options take defaults.
func NewScanner(account string, client ShareClient, sink BatchSink, opts Options) *Scanner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.ExcludePatterns == nil {
		opts.ExcludePatterns = DefaultExcludePatterns
	}
	return &Scanner{account: account, client: client, sink: sink, opts: opts}
}

// ScanAll discovers and scans every share in the account sequentially.
func (s *Scanner) ScanAll(ctx context.Context) ([]models.ScanSummary, error) {
	shares, err := s.client.ListShares(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}

	summaries := make([]models.ScanSummary, 0, len(shares))
	for _, share := range shares {
		summary, err := s.ScanShare(ctx, share)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ScanShare walks one share breadth-first and records every file. Listing
// errors for individual directories are collected in the summary rather
// than aborting the walk; only a failed batch write or a cancelled context
// stops the scan.
func (s *Scanner) ScanShare(ctx context.Context, share string) (models.ScanSummary, error) {
	executionID := uuid.NewString()
	summary := models.ScanSummary{
		StorageAccount: s.account,
		FileShare:      share,
		ExecutionID:    executionID,
	}

	log.Info().Str("account", s.account).Str("share", share).
		Str("execution_id", executionID).Msg("scan started")

	scannedAt := time.Now().UTC()
	var batch []models.FileRecord

	queue := []string{""}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		dir := queue[0]
		queue = queue[1:]
		summary.Directories++

		entries, err := s.client.ListDirectory(ctx, share, dir)
		if err != nil {
			msg := fmt.Sprintf("list %s/%s: %v", share, displayPath(dir), err)
			summary.Errors = append(summary.Errors, msg)
			log.Warn().Str("share", share).Str("dir", displayPath(dir)).Err(err).
				Msg("directory listing failed")
			continue
		}

		for _, e := range entries {
			if e.IsDirectory {
				queue = append(queue, path.Join(dir, e.Name))
				continue
			}
			if Excluded(e.Name, s.opts.ExcludePatterns) {
				continue
			}

			batch = append(batch, s.fileRecord(share, dir, e, executionID, scannedAt))
			summary.FilesProcessed++
			summary.BytesProcessed += e.SizeBytes

			if len(batch) >= s.opts.BatchSize {
				if err := s.flush(ctx, batch, &summary); err != nil {
					return summary, err
				}
				batch = nil
			}
		}
	}

	if len(batch) > 0 {
		if err := s.flush(ctx, batch, &summary); err != nil {
			return summary, err
		}
	}

	log.Info().Str("share", share).Int64("files", summary.FilesProcessed).
		Int64("bytes", summary.BytesProcessed).Int("errors", len(summary.Errors)).
		Msg("scan completed")
	return summary, nil
}

func (s *Scanner) flush(ctx context.Context, batch []models.FileRecord, summary *models.ScanSummary) error {
	if err := s.sink.RecordFiles(ctx, batch); err != nil {
		return fmt.Errorf("record batch: %w", err)
	}
	summary.BatchesSent++
	return nil
}

func (s *Scanner) fileRecord(share, dir string, e Entry, executionID string, scannedAt time.Time) models.FileRecord {
	ext := path.Ext(e.Name)
	ageDays := 0
	if !e.LastModified.IsZero() {
		ageDays = int(scannedAt.Sub(e.LastModified).Hours() / 24)
		if ageDays < 0 {
			ageDays = 0
		}
	}

	return models.FileRecord{
		StorageAccount: s.account,
		FileShare:      share,
		FilePath:       path.Join(dir, e.Name),
		FileName:       e.Name,
		FileExtension:  ext,
		SizeBytes:      e.SizeBytes,
		LastModified:   e.LastModified,
		Created:        e.Created,
		AgeDays:        ageDays,
		FileCategory:   FileCategory(ext),
		AgeBucket:      AgeBucket(ageDays),
		SizeBucket:     SizeBucket(e.SizeBytes),
		ExecutionID:    executionID,
		ScannedAt:      scannedAt,
	}
}

func displayPath(dir string) string {
	if dir == "" {
		return "(root)"
	}
	return dir
}
