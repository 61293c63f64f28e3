// Package costmodel evaluates the monthly cost formula for one storage tier.
package costmodel

import "github.com/gplima89/filetier/pkg/models"

// DefaultMetadataRatio is the assumed ratio of metadata footprint to data
// footprint. It is an inherited approximation, not a measured value, and is
// kept tunable rather than baked into the formula.
const DefaultMetadataRatio = 0.03

const opsPerBillingUnit = 10000

// Model computes per-tier monthly cost estimates.
type Model struct {
	metadataRatio float64
}

// New returns a Model using DefaultMetadataRatio.
func New() *Model {
	return NewWithMetadataRatio(DefaultMetadataRatio)
}

// NewWithMetadataRatio returns a Model with a custom metadata-to-data ratio.
// Ratios below zero are clamped to zero.
func NewWithMetadataRatio(ratio float64) *Model {
	if ratio < 0 {
		ratio = 0
	}
	return &Model{metadataRatio: ratio}
}

// EstimateMonthlyCost computes the projected monthly cost of a share on one
// tier. Delete operations are intentionally absent: they are free under
// every tier. No rounding is applied here; components carry full precision
// until a report is rendered.
func (m *Model) EstimateMonthlyCost(tier models.StorageTier, p models.TierPricing, usedGiB float64, obs models.TransactionObservation) models.CostEstimate {
	usedGiB = clamp(usedGiB)
	metadataGiB := usedGiB * m.metadataRatio

	est := models.CostEstimate{
		Tier:          tier,
		StorageCost:   usedGiB * p.DataStoredPerGiB,
		MetadataCost:  metadataGiB * p.MetadataPerGiB,
		WriteCost:     clamp(obs.Writes) / opsPerBillingUnit * p.WritePer10K,
		ListCost:      clamp(obs.Lists) / opsPerBillingUnit * p.ListPer10K,
		ReadCost:      clamp(obs.Reads) / opsPerBillingUnit * p.ReadPer10K,
		OtherCost:     clamp(obs.Others) / opsPerBillingUnit * p.OtherPer10K,
		RetrievalCost: clamp(obs.GiBRead) * p.RetrievalPerGiB,
	}
	est.Total = est.Sum()
	return est
}

// clamp floors negative caller inputs at zero. Inputs are contractually
// non-negative.
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
