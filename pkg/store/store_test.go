package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/gplima89/filetier/pkg/models"
)

func setup(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, context.Background()
}

func record(share, path string, size int64) models.FileRecord {
	return models.FileRecord{
		StorageAccount: "acct",
		FileShare:      share,
		FilePath:       path,
		FileName:       filepath.Base(path),
		FileExtension:  filepath.Ext(path),
		SizeBytes:      size,
		FileCategory:   "Documents",
		AgeBucket:      "0-7 days",
		SizeBucket:     "1 KB - 1 MB",
		ExecutionID:    "exec-1",
		ScannedAt:      time.Now().UTC(),
	}
}

func TestRecordFilesAndUsedCapacity(t *testing.T) {
	s, ctx := setup(t)

	err := s.RecordFiles(ctx, []models.FileRecord{
		record("docs", "reports/q1.pdf", 1<<30),
		record("docs", "reports/q2.pdf", 1<<29),
		record("media", "video.mp4", 1<<30),
	})
	if err != nil {
		t.Fatal(err)
	}

	used, err := s.ShareUsedGiB(ctx, "acct", "docs")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(used-1.5) > 1e-9 {
		t.Errorf("used = %v GiB, want 1.5", used)
	}
}

func TestShareUsedGiBEmpty(t *testing.T) {
	s, ctx := setup(t)
	used, err := s.ShareUsedGiB(ctx, "acct", "missing")
	if err != nil {
		t.Fatal(err)
	}
	if used != 0 {
		t.Errorf("used = %v, want 0 for unknown share", used)
	}
}

func TestShareSummary(t *testing.T) {
	s, ctx := setup(t)

	docs := record("docs", "a.pdf", 100)
	logs := record("docs", "b.log", 5000)
	logs.FileCategory = "Logs"
	if err := s.RecordFiles(ctx, []models.FileRecord{docs, logs}); err != nil {
		t.Fatal(err)
	}

	summaries, err := s.ShareSummary(ctx, "acct", "docs")
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d categories, want 2", len(summaries))
	}
	// Ordered by total bytes descending.
	if summaries[0].Category != "Logs" || summaries[0].Bytes != 5000 {
		t.Errorf("first summary = %+v, want Logs with 5000 bytes", summaries[0])
	}
}

func TestFileRecordsPage(t *testing.T) {
	s, ctx := setup(t)

	var batch []models.FileRecord
	for i := 0; i < 5; i++ {
		batch = append(batch, record("docs", filepath.Join("dir", string(rune('a'+i))+".txt"), 10))
	}
	if err := s.RecordFiles(ctx, batch); err != nil {
		t.Fatal(err)
	}

	page1, err := s.FileRecordsPage(ctx, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page1) != 2 {
		t.Fatalf("page 1 has %d records, want 2", len(page1))
	}
	page3, err := s.FileRecordsPage(ctx, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(page3) != 1 {
		t.Errorf("last page has %d records, want 1", len(page3))
	}
}

func TestShareOperationsWindow(t *testing.T) {
	s, ctx := setup(t)
	now := time.Now().UTC()

	err := s.ImportOperations(ctx, []OperationRow{
		{StorageAccount: "acct", FileShare: "docs", Operation: "ReadFile", Count: 100, BytesRead: 2048, ObservedAt: now.AddDate(0, 0, -2)},
		{StorageAccount: "acct", FileShare: "docs", Operation: "ReadFile", Count: 50, BytesRead: 1024, ObservedAt: now.AddDate(0, 0, -3)},
		{StorageAccount: "acct", FileShare: "docs", Operation: "WriteFile", Count: 10, BytesWritten: 512, ObservedAt: now.AddDate(0, 0, -1)},
		// Outside the 7-day window; must not be counted.
		{StorageAccount: "acct", FileShare: "docs", Operation: "ReadFile", Count: 9999, ObservedAt: now.AddDate(0, 0, -30)},
		// Different share; must not be counted.
		{StorageAccount: "acct", FileShare: "media", Operation: "ReadFile", Count: 777, ObservedAt: now},
	})
	if err != nil {
		t.Fatal(err)
	}

	w, err := s.ShareOperations(ctx, "acct", "docs", 7)
	if err != nil {
		t.Fatal(err)
	}
	if w.Counts["ReadFile"] != 150 {
		t.Errorf("ReadFile count = %d, want 150", w.Counts["ReadFile"])
	}
	if w.Counts["WriteFile"] != 10 {
		t.Errorf("WriteFile count = %d, want 10", w.Counts["WriteFile"])
	}
	if w.BytesRead != 3072 {
		t.Errorf("BytesRead = %d, want 3072", w.BytesRead)
	}
	if w.BytesWritten != 512 {
		t.Errorf("BytesWritten = %d, want 512", w.BytesWritten)
	}
	if w.WindowDays != 7 {
		t.Errorf("WindowDays = %d, want 7", w.WindowDays)
	}
}

func TestSaveAndListRecommendations(t *testing.T) {
	s, ctx := setup(t)

	rec := models.Recommendation{
		StorageAccount:  "acct",
		Share:           "docs",
		CurrentTier:     models.TierHot,
		RecommendedTier: models.TierCool,
		CurrentCost:     30.6,
		RecommendedCost: 15.6,
		MonthlySavings:  15.0,
		YearlySavings:   180.0,
		Reason:          "switching from Hot ($30.60/month) to Cool ($15.60/month) saves $15.00/month",
		ActionNeeded:    true,
	}
	if err := s.SaveRecommendation(ctx, rec); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListRecommendations(ctx, "acct")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	got := recs[0]
	if got.RecommendedTier != models.TierCool || !got.ActionNeeded {
		t.Errorf("recommendation round-trip mismatch: %+v", got)
	}
	if got.MonthlySavings != 15.0 {
		t.Errorf("monthly savings = %v, want 15.0", got.MonthlySavings)
	}

	other, err := s.ListRecommendations(ctx, "other-acct")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("got %d recommendations for other account, want 0", len(other))
	}
}
