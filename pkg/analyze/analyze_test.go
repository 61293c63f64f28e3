package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gplima89/filetier/pkg/config"
	"github.com/gplima89/filetier/pkg/models"
	"github.com/gplima89/filetier/pkg/pricing"
	"github.com/gplima89/filetier/pkg/telemetry"
)

type fakeSnapshots struct {
	snaps map[string]models.ShareUsageSnapshot // "account/share"
	fail  map[string]bool
}

func (f *fakeSnapshots) ShareSnapshot(_ context.Context, account, share string) (models.ShareUsageSnapshot, error) {
	key := account + "/" + share
	if f.fail[key] {
		// Like ConfigSnapshots, hand back what is known alongside the error.
		return f.snaps[key], errors.New("snapshot unavailable")
	}
	return f.snaps[key], nil
}

type fakeOperations struct {
	windows map[string]telemetry.RawWindow
	fail    map[string]bool
}

func (f *fakeOperations) ShareOperations(_ context.Context, account, share string, windowDays int) (telemetry.RawWindow, error) {
	key := account + "/" + share
	if f.fail[key] {
		return telemetry.RawWindow{}, errors.New("telemetry unavailable")
	}
	w := f.windows[key]
	if w.WindowDays == 0 {
		w.WindowDays = windowDays
	}
	return w, nil
}

type fallbackProvider struct{}

func (fallbackProvider) FetchTierPricing(_ context.Context, region string, redundancy models.Redundancy) *pricing.PriceSet {
	return pricing.Fallback(region, redundancy)
}

func testAnalyzer(snaps *fakeSnapshots, ops *fakeOperations) *Analyzer {
	return New(snaps, ops, pricing.NewCache(fallbackProvider{}), nil, 30)
}

func TestRunOneRecommendationPerShare(t *testing.T) {
	snaps := &fakeSnapshots{snaps: map[string]models.ShareUsageSnapshot{
		"acct/docs": {StorageAccount: "acct", Share: "docs", CurrentTier: models.TierHot, UsedGiB: 500},
		"acct/logs": {StorageAccount: "acct", Share: "logs", CurrentTier: models.TierCool, UsedGiB: 50},
	}}
	ops := &fakeOperations{windows: map[string]telemetry.RawWindow{
		"acct/docs": {Counts: map[string]int64{"Write": 1000, "Read": 5000}, WindowDays: 30},
	}}

	recs, err := testAnalyzer(snaps, ops).Run(context.Background(), []Target{{
		Account: "acct", Region: "eastus", Redundancy: models.RedundancyLRS,
		Shares: []string{"docs", "logs"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(recs))
	}
	if recs[0].Share != "docs" || recs[1].Share != "logs" {
		t.Errorf("order = %q, %q", recs[0].Share, recs[1].Share)
	}
	for _, rec := range recs {
		if rec.RecommendedTier == "" {
			t.Errorf("%s: empty recommended tier", rec.Share)
		}
		if !rec.Approximate {
			t.Errorf("%s: fallback prices should flag the estimate approximate", rec.Share)
		}
	}
}

func TestRunDegradesOnMissingSnapshot(t *testing.T) {
	snaps := &fakeSnapshots{fail: map[string]bool{"acct/docs": true}}
	ops := &fakeOperations{}

	recs, err := testAnalyzer(snaps, ops).Run(context.Background(), []Target{{
		Account: "acct", Region: "eastus", Redundancy: models.RedundancyLRS,
		Shares: []string{"docs"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}
	if recs[0].Share != "docs" {
		t.Errorf("share = %q", recs[0].Share)
	}
	// Zero capacity and zero traffic still produce a priced estimate.
	if recs[0].RecommendedCost != 0 {
		t.Errorf("recommended cost = %v, want 0 for empty share", recs[0].RecommendedCost)
	}
}

// A failed capacity read must not discard the configured share metadata:
// a premium share still takes the fixed-tier path.
func TestRunKeepsSnapshotMetadataOnCapacityError(t *testing.T) {
	snaps := &fakeSnapshots{
		snaps: map[string]models.ShareUsageSnapshot{
			"acct/db": {StorageAccount: "acct", Share: "db", CurrentTier: models.TierPremium, Premium: true, UsedGiB: 300},
		},
		fail: map[string]bool{"acct/db": true},
	}

	recs, err := testAnalyzer(snaps, &fakeOperations{}).Run(context.Background(), []Target{{
		Account: "acct", Region: "eastus", Redundancy: models.RedundancyLRS,
		Shares: []string{"db"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	rec := recs[0]
	if rec.RecommendedTier != models.TierPremium || rec.ActionNeeded {
		t.Errorf("recommendation = %+v, want fixed Premium no-change", rec)
	}
	if rec.CurrentCost != 0 || rec.RecommendedCost != 0 {
		t.Errorf("costs = %v/%v, want zero for fixed tier", rec.CurrentCost, rec.RecommendedCost)
	}
}

func TestRunDegradesOnMissingTelemetry(t *testing.T) {
	snaps := &fakeSnapshots{snaps: map[string]models.ShareUsageSnapshot{
		"acct/docs": {StorageAccount: "acct", Share: "docs", CurrentTier: models.TierHot, UsedGiB: 100},
	}}
	ops := &fakeOperations{fail: map[string]bool{"acct/docs": true}}

	recs, err := testAnalyzer(snaps, ops).Run(context.Background(), []Target{{
		Account: "acct", Region: "eastus", Redundancy: models.RedundancyLRS,
		Shares: []string{"docs"},
	}})
	if err != nil {
		t.Fatal(err)
	}
	// Storage-only costing pushes an idle share toward Cool.
	if recs[0].RecommendedTier != models.TierCool {
		t.Errorf("recommended tier = %q, want Cool for idle share", recs[0].RecommendedTier)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testAnalyzer(&fakeSnapshots{}, &fakeOperations{}).Run(ctx, []Target{{
		Account: "acct", Shares: []string{"docs"},
	}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type fixedCapacity struct {
	gib float64
	err error
}

func (f fixedCapacity) ShareUsedGiB(context.Context, string, string) (float64, error) {
	return f.gib, f.err
}

func testAccounts() []config.AccountConfig {
	return []config.AccountConfig{{
		Name: "acct", Region: "eastus", Redundancy: models.RedundancyLRS,
		Shares: []config.ShareConfig{
			{Name: "docs", CurrentTier: models.TierHot, QuotaGiB: 1024},
			{Name: "db", Premium: true, QuotaGiB: 500},
		},
	}}
}

func TestConfigSnapshots(t *testing.T) {
	src := NewConfigSnapshots(testAccounts(), fixedCapacity{gib: 42})

	snap, err := src.ShareSnapshot(context.Background(), "acct", "docs")
	if err != nil {
		t.Fatal(err)
	}
	if snap.CurrentTier != models.TierHot || snap.QuotaGiB != 1024 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.UsedGiB != 42 {
		t.Errorf("used = %v, want 42", snap.UsedGiB)
	}

	// Premium shares with no explicit tier report Premium.
	snap, err = src.ShareSnapshot(context.Background(), "acct", "db")
	if err != nil {
		t.Fatal(err)
	}
	if !snap.Premium || snap.CurrentTier != models.TierPremium {
		t.Errorf("premium snapshot = %+v", snap)
	}
}

func TestConfigSnapshotsUnknownShare(t *testing.T) {
	src := NewConfigSnapshots(testAccounts(), fixedCapacity{})
	_, err := src.ShareSnapshot(context.Background(), "acct", "nope")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("err = %v", err)
	}
}

func TestConfigSnapshotsCapacityError(t *testing.T) {
	src := NewConfigSnapshots(testAccounts(), fixedCapacity{err: errors.New("db closed")})
	if _, err := src.ShareSnapshot(context.Background(), "acct", "docs"); err == nil {
		t.Error("capacity error swallowed")
	}
}

func TestTargetsFromConfig(t *testing.T) {
	targets := TargetsFromConfig(testAccounts())
	if len(targets) != 1 {
		t.Fatalf("got %d targets, want 1", len(targets))
	}
	if targets[0].Region != "eastus" || len(targets[0].Shares) != 2 {
		t.Errorf("target = %+v", targets[0])
	}
}
