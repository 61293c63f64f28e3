// Package export renders inventory and recommendation data as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/gplima89/filetier/pkg/models"
)

// RecordPager supplies inventory records one page at a time.
type RecordPager interface {
	FileRecordsPage(ctx context.Context, limit, offset int) ([]models.FileRecord, error)
}

const (
	pageSize = 1000
	// maxExportPages bounds the export loop even against a pager that
	// keeps returning full pages.
	maxExportPages = 100000
)

var fileRecordHeader = []string{
	"storage_account", "file_share", "file_path", "file_name", "extension",
	"size_bytes", "size", "last_modified", "age_days", "category",
	"age_bucket", "size_bucket", "execution_id",
}

// WriteFileRecordsCSV streams all inventory records to w, paging through
// the store. It returns the number of records written.
func WriteFileRecordsCSV(ctx context.Context, w io.Writer, pager RecordPager) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(fileRecordHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	total := 0
	for page := 0; page < maxExportPages; page++ {
		records, err := pager.FileRecordsPage(ctx, pageSize, page*pageSize)
		if err != nil {
			return total, fmt.Errorf("page %d: %w", page, err)
		}
		if len(records) == 0 {
			break
		}

		for _, r := range records {
			row := []string{
				r.StorageAccount, r.FileShare, r.FilePath, r.FileName, r.FileExtension,
				strconv.FormatInt(r.SizeBytes, 10),
				humanize.IBytes(uint64(r.SizeBytes)),
				timestamp(r.LastModified),
				strconv.Itoa(r.AgeDays),
				r.FileCategory, r.AgeBucket, r.SizeBucket, r.ExecutionID,
			}
			if err := cw.Write(row); err != nil {
				return total, fmt.Errorf("write csv row: %w", err)
			}
			total++
		}
	}

	cw.Flush()
	return total, cw.Error()
}

var recommendationHeader = []string{
	"storage_account", "file_share", "current_tier", "recommended_tier",
	"current_cost", "recommended_cost", "monthly_savings", "yearly_savings",
	"savings_percent", "action_needed", "approximate", "reason",
}

// WriteRecommendationsCSV writes one row per recommendation. Monetary
// columns are rounded to two decimals here, at the reporting boundary.
func WriteRecommendationsCSV(w io.Writer, recs []models.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(recommendationHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range recs {
		row := []string{
			r.StorageAccount, r.Share,
			string(r.CurrentTier), string(r.RecommendedTier),
			money(r.CurrentCost), money(r.RecommendedCost),
			money(r.MonthlySavings), money(r.YearlySavings),
			money(r.SavingsPercent),
			strconv.FormatBool(r.ActionNeeded),
			strconv.FormatBool(r.Approximate),
			r.Reason,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
