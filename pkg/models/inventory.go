package models

import "time"

// FileRecord is a single file inventory entry produced by a scan.
type FileRecord struct {
	StorageAccount string    `json:"storage_account"`
	FileShare      string    `json:"file_share"`
	FilePath       string    `json:"file_path"`
	FileName       string    `json:"file_name"`
	FileExtension  string    `json:"file_extension"`
	SizeBytes      int64     `json:"size_bytes"`
	LastModified   time.Time `json:"last_modified"`
	Created        time.Time `json:"created"`
	AgeDays        int       `json:"age_days"`
	FileCategory   string    `json:"file_category"`
	AgeBucket      string    `json:"age_bucket"`
	SizeBucket     string    `json:"size_bucket"`
	ExecutionID    string    `json:"execution_id"`
	ScannedAt      time.Time `json:"scanned_at"`
}

// ScanSummary aggregates the outcome of scanning one share.
type ScanSummary struct {
	StorageAccount string   `json:"storage_account"`
	FileShare      string   `json:"file_share"`
	ExecutionID    string   `json:"execution_id"`
	FilesProcessed int64    `json:"files_processed"`
	BytesProcessed int64    `json:"bytes_processed"`
	Directories    int64    `json:"directories"`
	BatchesSent    int      `json:"batches_sent"`
	Errors         []string `json:"errors,omitempty"`
}

// BatchResult reports the outcome of shipping one batch of records.
type BatchResult struct {
	Success     bool   `json:"success"`
	RecordsSent int    `json:"records_sent"`
	Message     string `json:"message,omitempty"`
}
