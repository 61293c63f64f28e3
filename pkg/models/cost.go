package models

// CostEstimate is the projected monthly cost of one share on one tier,
// broken into its seven billing components. Values are unrounded USD;
// rounding happens only when a report is rendered.
type CostEstimate struct {
	Tier          StorageTier `json:"tier"`
	StorageCost   float64     `json:"storage_cost"`
	MetadataCost  float64     `json:"metadata_cost"`
	WriteCost     float64     `json:"write_cost"`
	ListCost      float64     `json:"list_cost"`
	ReadCost      float64     `json:"read_cost"`
	OtherCost     float64     `json:"other_cost"`
	RetrievalCost float64     `json:"retrieval_cost"`
	Total         float64     `json:"total"`
}

// Sum returns the exact sum of the seven components.
func (e CostEstimate) Sum() float64 {
	return e.StorageCost + e.MetadataCost + e.WriteCost + e.ListCost +
		e.ReadCost + e.OtherCost + e.RetrievalCost
}

// Recommendation is the engine's output for one file share.
type Recommendation struct {
	StorageAccount  string         `json:"storage_account"`
	Share           string         `json:"share"`
	CurrentTier     StorageTier    `json:"current_tier"`
	RecommendedTier StorageTier    `json:"recommended_tier"`
	CurrentCost     float64        `json:"current_cost"`
	RecommendedCost float64        `json:"recommended_cost"`
	MonthlySavings  float64        `json:"monthly_savings"`
	YearlySavings   float64        `json:"yearly_savings"`
	SavingsPercent  float64        `json:"savings_percent"`
	Reason          string         `json:"reason"`
	ActionNeeded    bool           `json:"action_needed"`
	Approximate     bool           `json:"approximate"`
	Estimates       []CostEstimate `json:"estimates,omitempty"`
}
