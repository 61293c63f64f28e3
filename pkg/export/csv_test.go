package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/gplima89/filetier/pkg/models"
)

type slicePager struct {
	records []models.FileRecord
}

func (p *slicePager) FileRecordsPage(_ context.Context, limit, offset int) ([]models.FileRecord, error) {
	if offset >= len(p.records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(p.records) {
		end = len(p.records)
	}
	return p.records[offset:end], nil
}

func TestWriteFileRecordsCSV(t *testing.T) {
	pager := &slicePager{records: []models.FileRecord{
		{
			StorageAccount: "acct", FileShare: "docs", FilePath: "a/b.pdf",
			FileName: "b.pdf", FileExtension: ".pdf", SizeBytes: 2048,
			AgeDays: 12, FileCategory: "Documents",
			AgeBucket: "8-30 days", SizeBucket: "1 KB - 1 MB", ExecutionID: "e1",
		},
		{
			StorageAccount: "acct", FileShare: "docs", FilePath: "c.log",
			FileName: "c.log", FileExtension: ".log", SizeBytes: 10,
			FileCategory: "Logs", AgeBucket: "0-7 days", SizeBucket: "< 1 KB", ExecutionID: "e1",
		},
	}}

	var buf bytes.Buffer
	n, err := WriteFileRecordsCSV(context.Background(), &buf, pager)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("wrote %d records, want 2", n)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "storage_account" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "a/b.pdf" || rows[1][5] != "2048" {
		t.Errorf("first row = %v", rows[1])
	}
	// Empty last_modified renders as an empty cell, not a zero time.
	if rows[1][7] != "" {
		t.Errorf("last_modified = %q, want empty", rows[1][7])
	}
}

func TestWriteRecommendationsCSVRounding(t *testing.T) {
	recs := []models.Recommendation{{
		StorageAccount:  "acct",
		Share:           "docs",
		CurrentTier:     models.TierHot,
		RecommendedTier: models.TierCool,
		CurrentCost:     30.6004,
		RecommendedCost: 15.675,
		MonthlySavings:  14.9254,
		YearlySavings:   179.1048,
		SavingsPercent:  48.776,
		Reason:          "switching from Hot to Cool",
		ActionNeeded:    true,
		Approximate:     true,
	}}

	var buf bytes.Buffer
	if err := WriteRecommendationsCSV(&buf, recs); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	row := rows[1]
	if row[4] != "30.60" {
		t.Errorf("current_cost = %q, want 30.60", row[4])
	}
	if row[6] != "14.93" {
		t.Errorf("monthly_savings = %q, want 14.93", row[6])
	}
	if row[9] != "true" || row[10] != "true" {
		t.Errorf("flags = %q/%q, want true/true", row[9], row[10])
	}
	if !strings.Contains(row[11], "Hot") {
		t.Errorf("reason = %q", row[11])
	}
}
