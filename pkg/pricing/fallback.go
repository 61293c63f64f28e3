package pricing

import "github.com/gplima89/filetier/pkg/models"

// fallbackRates is a static approximation of standard file-share rates for
// a single reference region (East US, LRS), in USD. It is used whenever
// live catalog data is unavailable or incomplete, and any recommendation
// built on it is flagged approximate.
var fallbackRates = map[models.StorageTier]models.TierPricing{
	models.TierTransactionOptimized: {
		DataStoredPerGiB: 0.06,
		MetadataPerGiB:   0.016,
		WritePer10K:      0.03,
		ListPer10K:       0.03,
		ReadPer10K:       0.006,
		OtherPer10K:      0.0012,
		RetrievalPerGiB:  0,
	},
	models.TierHot: {
		DataStoredPerGiB: 0.03,
		MetadataPerGiB:   0.02,
		WritePer10K:      0.10,
		ListPer10K:       0.10,
		ReadPer10K:       0.02,
		OtherPer10K:      0.004,
		RetrievalPerGiB:  0,
	},
	models.TierCool: {
		DataStoredPerGiB: 0.015,
		MetadataPerGiB:   0.02,
		WritePer10K:      0.13,
		ListPer10K:       0.13,
		ReadPer10K:       0.026,
		OtherPer10K:      0.0052,
		RetrievalPerGiB:  0.01,
	},
}

// Fallback returns the static rate table tagged as approximate. The region
// and redundancy are recorded for reporting even though the rates themselves
// are reference-region values.
func Fallback(region string, redundancy models.Redundancy) *PriceSet {
	rates := make(map[models.StorageTier]models.TierPricing, len(fallbackRates))
	for tier, p := range fallbackRates {
		rates[tier] = p
	}
	return &PriceSet{
		Region:     region,
		Redundancy: redundancy,
		Source:     SourceFallback,
		Rates:      rates,
	}
}
