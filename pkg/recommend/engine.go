// Package recommend selects the cheapest storage tier for a file share from
// per-tier cost estimates, with a transactions-per-GiB heuristic when no
// pricing data is usable.
package recommend

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/gplima89/filetier/pkg/costmodel"
	"github.com/gplima89/filetier/pkg/models"
	"github.com/gplima89/filetier/pkg/pricing"
)

// Heuristic thresholds on monthly transactions per GiB of stored data.
const (
	highActivityPerGiB = 100
	lowActivityPerGiB  = 10
	// minStorageGiB guards the ratio against an empty share.
	minStorageGiB = 1e-6
)

// Engine produces tier recommendations.
type Engine struct {
	model *costmodel.Model
}

// New creates an Engine. A nil model selects the default cost model.
func New(model *costmodel.Model) *Engine {
	if model == nil {
		model = costmodel.New()
	}
	return &Engine{model: model}
}

// Recommend evaluates every eligible tier for a share and returns the
// cheapest as a recommendation. Premium shares are fixed and short-circuit
// with a no-change record. A nil or empty price set routes to the heuristic
// path. This function never fails; the worst case is a clearly flagged
// approximate recommendation.
func (e *Engine) Recommend(prices *pricing.PriceSet, snap models.ShareUsageSnapshot, obs models.TransactionObservation) models.Recommendation {
	if snap.Premium {
		tier := snap.CurrentTier
		if tier == "" {
			tier = models.TierPremium
		}
		return models.Recommendation{
			StorageAccount:  snap.StorageAccount,
			Share:           snap.Share,
			CurrentTier:     tier,
			RecommendedTier: tier,
			Reason:          "share is on the fixed Premium tier and cannot change tiers",
			ActionNeeded:    false,
		}
	}

	if prices == nil || len(prices.Rates) == 0 {
		return e.recommendHeuristic(snap, obs)
	}

	usedGiB := snap.UsedGiB
	if usedGiB < 0 {
		usedGiB = 0
	}

	estimates := make([]models.CostEstimate, 0, 3)
	byTier := make(map[models.StorageTier]models.CostEstimate, 3)
	for _, tier := range models.VariableTiers() {
		est := e.model.EstimateMonthlyCost(tier, prices.Rates[tier], usedGiB, obs)
		estimates = append(estimates, est)
		byTier[tier] = est
	}

	best := estimates[0]
	for _, est := range estimates[1:] {
		if est.Total < best.Total {
			best = est
		}
	}
	// Ties break toward the current tier so the engine never recommends a
	// lateral move with zero savings.
	if cur, ok := byTier[snap.CurrentTier]; ok && cur.Total == best.Total {
		best = cur
	}

	current, haveCurrent := byTier[snap.CurrentTier]
	rec := models.Recommendation{
		StorageAccount:  snap.StorageAccount,
		Share:           snap.Share,
		CurrentTier:     snap.CurrentTier,
		RecommendedTier: best.Tier,
		CurrentCost:     current.Total,
		RecommendedCost: best.Total,
		ActionNeeded:    best.Tier != snap.CurrentTier,
		Approximate:     prices.Approximate(),
		Estimates:       estimates,
	}

	if !haveCurrent {
		rec.Reason = fmt.Sprintf("current tier %q has no rate data; %s is the cheapest available tier at $%s/month",
			snap.CurrentTier, best.Tier, money(best.Total))
		return rec
	}

	rec.MonthlySavings = current.Total - best.Total
	rec.YearlySavings = rec.MonthlySavings * 12
	if current.Total > 0 {
		rec.SavingsPercent = rec.MonthlySavings / current.Total * 100
	}

	if rec.ActionNeeded {
		rec.Reason = fmt.Sprintf("switching from %s ($%s/month) to %s ($%s/month) saves $%s/month",
			snap.CurrentTier, money(current.Total), best.Tier, money(best.Total), money(rec.MonthlySavings))
	} else {
		rec.Reason = fmt.Sprintf("%s ($%s/month) is already the cheapest tier among the evaluated alternatives ($%s/month and up)",
			snap.CurrentTier, money(current.Total), money(best.Total))
	}
	if rec.Approximate {
		rec.Reason += " (based on approximate fallback rates)"
	}
	return rec
}

// recommendHeuristic is the degraded-mode rule used when neither live nor
// fallback pricing could be constructed. It classifies the share by monthly
// transactions per GiB and never reports a dollar figure.
func (e *Engine) recommendHeuristic(snap models.ShareUsageSnapshot, obs models.TransactionObservation) models.Recommendation {
	total := obs.TotalTransactions()
	usedGiB := math.Max(snap.UsedGiB, minStorageGiB)

	var tier models.StorageTier
	var why string
	switch {
	case total == 0:
		tier = models.TierCool
		why = "no transactions observed"
	default:
		ratio := total / usedGiB
		switch {
		case ratio > highActivityPerGiB:
			tier = models.TierTransactionOptimized
			why = fmt.Sprintf("high activity (%.0f transactions/GiB/month)", ratio)
		case ratio >= lowActivityPerGiB:
			tier = models.TierHot
			why = fmt.Sprintf("moderate activity (%.0f transactions/GiB/month)", ratio)
		default:
			tier = models.TierCool
			why = fmt.Sprintf("low activity (%.0f transactions/GiB/month)", ratio)
		}
	}

	return models.Recommendation{
		StorageAccount:  snap.StorageAccount,
		Share:           snap.Share,
		CurrentTier:     snap.CurrentTier,
		RecommendedTier: tier,
		Reason: fmt.Sprintf("pricing unavailable; approximate recommendation from %s, no cost estimate possible",
			why),
		ActionNeeded: tier != snap.CurrentTier,
		Approximate:  true,
	}
}

// money renders an unrounded cost as a two-decimal currency string. This is
// the reporting boundary: values stay at full precision until here.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
