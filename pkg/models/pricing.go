package models

// TierPricing holds the monthly rates for one storage tier in one
// (region, redundancy) pair. Operation rates are per 10,000 operations;
// capacity rates are per GiB per month.
type TierPricing struct {
	DataStoredPerGiB float64 `json:"data_stored_per_gib"`
	MetadataPerGiB   float64 `json:"metadata_per_gib"`
	WritePer10K      float64 `json:"write_per_10k"`
	ListPer10K       float64 `json:"list_per_10k"`
	ReadPer10K       float64 `json:"read_per_10k"`
	OtherPer10K      float64 `json:"other_per_10k"`
	RetrievalPerGiB  float64 `json:"retrieval_per_gib"`
}
