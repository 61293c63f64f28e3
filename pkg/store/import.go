package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// operationsHeader is the expected column layout for telemetry exports.
var operationsHeader = []string{
	"storage_account", "file_share", "operation", "count",
	"bytes_read", "bytes_written", "observed_at",
}

// ParseOperationsCSV reads exported transaction telemetry. The first row
// must be the header; observed_at is RFC 3339. bytes_read and
// bytes_written may be empty.
func ParseOperationsCSV(r io.Reader) ([]OperationRow, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) != len(operationsHeader) {
		return nil, fmt.Errorf("csv header has %d columns, want %d", len(header), len(operationsHeader))
	}
	for i, want := range operationsHeader {
		if header[i] != want {
			return nil, fmt.Errorf("csv column %d is %q, want %q", i, header[i], want)
		}
	}

	var ops []OperationRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		count, err := strconv.ParseInt(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: count %q: %w", line, record[3], err)
		}
		bytesRead, err := parseOptionalInt(record[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: bytes_read %q: %w", line, record[4], err)
		}
		bytesWritten, err := parseOptionalInt(record[5])
		if err != nil {
			return nil, fmt.Errorf("line %d: bytes_written %q: %w", line, record[5], err)
		}
		observedAt, err := time.Parse(time.RFC3339, record[6])
		if err != nil {
			return nil, fmt.Errorf("line %d: observed_at %q: %w", line, record[6], err)
		}

		ops = append(ops, OperationRow{
			StorageAccount: record[0],
			FileShare:      record[1],
			Operation:      record[2],
			Count:          count,
			BytesRead:      bytesRead,
			BytesWritten:   bytesWritten,
			ObservedAt:     observedAt.UTC(),
		})
	}
	return ops, nil
}

func parseOptionalInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
