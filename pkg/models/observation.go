package models

// TransactionObservation holds per-share operation volumes classified into
// the five billing categories and normalized to a 30-day month. Counts are
// float64 because normalization scales them by 30/windowDays.
type TransactionObservation struct {
	Writes     float64 `json:"writes"`
	Lists      float64 `json:"lists"`
	Reads      float64 `json:"reads"`
	Others     float64 `json:"others"`
	Deletes    float64 `json:"deletes"`
	GiBRead    float64 `json:"gib_read"`
	GiBWritten float64 `json:"gib_written"`
	WindowDays int     `json:"window_days"`
}

// TotalTransactions returns the sum of all five category counts.
func (o TransactionObservation) TotalTransactions() float64 {
	return o.Writes + o.Lists + o.Reads + o.Others + o.Deletes
}

// ShareUsageSnapshot is the point-in-time state of a file share as reported
// by the storage management plane.
type ShareUsageSnapshot struct {
	StorageAccount string      `json:"storage_account"`
	Share          string      `json:"share"`
	CurrentTier    StorageTier `json:"current_tier"`
	UsedGiB        float64     `json:"used_gib"`
	QuotaGiB       float64     `json:"quota_gib"`
	Premium        bool        `json:"premium"`
}
