// Package analyze runs the per-share recommendation pipeline: usage
// snapshot plus observed transactions, priced per tier, reduced to a
// tier recommendation.
package analyze

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gplima89/filetier/pkg/config"
	"github.com/gplima89/filetier/pkg/models"
	"github.com/gplima89/filetier/pkg/pricing"
	"github.com/gplima89/filetier/pkg/recommend"
	"github.com/gplima89/filetier/pkg/telemetry"
)

// SnapshotSource supplies the current state of a share.
type SnapshotSource interface {
	ShareSnapshot(ctx context.Context, account, share string) (models.ShareUsageSnapshot, error)
}

// Target names the shares of one storage account to analyze. Region and
// redundancy select the price catalog rows.
type Target struct {
	Account    string
	Region     string
	Redundancy models.Redundancy
	Shares     []string
}

// TargetsFromConfig flattens configured accounts into analyzer targets.
func TargetsFromConfig(accounts []config.AccountConfig) []Target {
	targets := make([]Target, 0, len(accounts))
	for _, a := range accounts {
		t := Target{Account: a.Name, Region: a.Region, Redundancy: a.Redundancy}
		for _, s := range a.Shares {
			t.Shares = append(t.Shares, s.Name)
		}
		targets = append(targets, t)
	}
	return targets
}

// Analyzer wires snapshots, telemetry, pricing and the recommendation
// engine into one pass over a set of shares.
type Analyzer struct {
	snapshots  SnapshotSource
	operations telemetry.Source
	prices     *pricing.Cache
	engine     *recommend.Engine
	windowDays int
}

// New creates an Analyzer. A nil engine gets the default cost model.
func New(snapshots SnapshotSource, operations telemetry.Source, prices *pricing.Cache, engine *recommend.Engine, windowDays int) *Analyzer {
	if engine == nil {
		engine = recommend.New(nil)
	}
	if windowDays < 1 {
		windowDays = 30
	}
	return &Analyzer{
		snapshots:  snapshots,
		operations: operations,
		prices:     prices,
		engine:     engine,
		windowDays: windowDays,
	}
}

// Run produces one recommendation per share, in target order. Missing
// snapshots or telemetry degrade the estimate for that share instead of
// failing the run; only context cancellation stops it.
func (a *Analyzer) Run(ctx context.Context, targets []Target) ([]models.Recommendation, error) {
	var recs []models.Recommendation
	for _, t := range targets {
		for _, share := range t.Shares {
			if err := ctx.Err(); err != nil {
				return recs, err
			}
			recs = append(recs, a.analyzeShare(ctx, t, share))
		}
	}
	return recs, nil
}

func (a *Analyzer) analyzeShare(ctx context.Context, t Target, share string) models.Recommendation {
	snap, err := a.snapshots.ShareSnapshot(ctx, t.Account, share)
	if err != nil {
		// Keep whatever the source filled in (tier, premium flag) and only
		// default the unreliable part: used capacity drops to zero.
		log.Warn().Err(err).Str("account", t.Account).Str("share", share).
			Msg("usage snapshot incomplete, assuming zero used capacity")
		snap.StorageAccount = t.Account
		snap.Share = share
		snap.UsedGiB = 0
	}

	window, err := a.operations.ShareOperations(ctx, t.Account, share, a.windowDays)
	if err != nil {
		log.Warn().Err(err).Str("account", t.Account).Str("share", share).
			Msg("no transaction telemetry, assuming idle share")
		window = telemetry.RawWindow{WindowDays: a.windowDays}
	}
	obs := telemetry.Aggregate(window)

	prices := a.prices.Get(ctx, t.Region, t.Redundancy)
	return a.engine.Recommend(prices, snap, obs)
}

// CapacitySource reports used capacity from the inventory store.
type CapacitySource interface {
	ShareUsedGiB(ctx context.Context, account, share string) (float64, error)
}

// ConfigSnapshots builds usage snapshots from configured share metadata
// plus scanned capacity.
type ConfigSnapshots struct {
	accounts []config.AccountConfig
	capacity CapacitySource
}

// NewConfigSnapshots pairs configured accounts with a capacity source.
func NewConfigSnapshots(accounts []config.AccountConfig, capacity CapacitySource) *ConfigSnapshots {
	return &ConfigSnapshots{accounts: accounts, capacity: capacity}
}

// ShareSnapshot returns the snapshot for a configured share. Premium
// shares with no explicit tier get TierPremium.
func (s *ConfigSnapshots) ShareSnapshot(ctx context.Context, account, share string) (models.ShareUsageSnapshot, error) {
	for _, a := range s.accounts {
		if a.Name != account {
			continue
		}
		for _, sh := range a.Shares {
			if sh.Name != share {
				continue
			}
			snap := models.ShareUsageSnapshot{
				StorageAccount: account,
				Share:          share,
				CurrentTier:    sh.CurrentTier,
				QuotaGiB:       sh.QuotaGiB,
				Premium:        sh.Premium,
			}
			if snap.Premium && snap.CurrentTier == "" {
				snap.CurrentTier = models.TierPremium
			}
			used, err := s.capacity.ShareUsedGiB(ctx, account, share)
			if err != nil {
				return snap, fmt.Errorf("used capacity for %s/%s: %w", account, share, err)
			}
			snap.UsedGiB = used
			return snap, nil
		}
	}
	return models.ShareUsageSnapshot{}, fmt.Errorf("share %s/%s is not configured", account, share)
}
