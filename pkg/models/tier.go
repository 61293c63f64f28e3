package models

// StorageTier is an Azure Files billing tier.
type StorageTier string

const (
	TierTransactionOptimized StorageTier = "TransactionOptimized"
	TierHot                  StorageTier = "Hot"
	TierCool                 StorageTier = "Cool"
	TierPremium              StorageTier = "Premium"
)

// VariableTiers returns the three standard tiers a share can move between,
// in canonical order. Premium is excluded: it is fixed at provisioning time.
func VariableTiers() []StorageTier {
	return []StorageTier{TierTransactionOptimized, TierHot, TierCool}
}

// Redundancy is a data-replication scheme. Pricing differs per scheme.
type Redundancy string

const (
	RedundancyLRS    Redundancy = "LRS"
	RedundancyZRS    Redundancy = "ZRS"
	RedundancyGRS    Redundancy = "GRS"
	RedundancyGZRS   Redundancy = "GZRS"
	RedundancyRAGRS  Redundancy = "RA-GRS"
	RedundancyRAGZRS Redundancy = "RA-GZRS"
)
