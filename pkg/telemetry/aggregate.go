package telemetry

import (
	"context"

	"github.com/gplima89/filetier/pkg/models"
)

const bytesPerGiB = 1 << 30

// RawWindow holds unclassified per-operation counts and byte totals for one
// share over an observation window.
type RawWindow struct {
	Counts       map[string]int64
	BytesRead    int64
	BytesWritten int64
	WindowDays   int
}

// Source provides raw operation telemetry for a share. Implementations query
// a log or telemetry store; the aggregator treats them as opaque.
type Source interface {
	ShareOperations(ctx context.Context, account, share string, windowDays int) (RawWindow, error)
}

// Aggregate classifies raw operation counts into the five billing categories
// and projects every volume to a 30-day monthly equivalent. The classified
// category counts always sum exactly to the input total: every operation
// lands in exactly one category before normalization is applied.
func Aggregate(w RawWindow) models.TransactionObservation {
	days := w.WindowDays
	if days < 1 {
		days = 1
	}

	var writes, lists, reads, others, deletes int64
	for op, count := range w.Counts {
		if count < 0 {
			continue
		}
		switch Classify(op) {
		case CategoryDelete:
			deletes += count
		case CategoryList:
			lists += count
		case CategoryWrite:
			writes += count
		case CategoryRead:
			reads += count
		default:
			others += count
		}
	}

	factor := 30.0 / float64(days)
	return models.TransactionObservation{
		Writes:     float64(writes) * factor,
		Lists:      float64(lists) * factor,
		Reads:      float64(reads) * factor,
		Others:     float64(others) * factor,
		Deletes:    float64(deletes) * factor,
		GiBRead:    float64(max(w.BytesRead, 0)) / bytesPerGiB * factor,
		GiBWritten: float64(max(w.BytesWritten, 0)) / bytesPerGiB * factor,
		WindowDays: days,
	}
}
