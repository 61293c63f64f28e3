// Package pricing resolves per-tier storage rates from the Azure retail
// price catalog, with a static fallback table when live data is unusable.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gplima89/filetier/pkg/models"
)

// DefaultEndpoint is the public Azure Retail Prices API.
const DefaultEndpoint = "https://prices.azure.com/api/retail/prices"

const (
	defaultTimeout = 30 * time.Second
	// maxPages bounds pagination so a catalog that never returns an empty
	// continuation link cannot stall a run.
	maxPages = 20
)

// PriceSource tags where a PriceSet came from.
type PriceSource int

const (
	SourceLive PriceSource = iota
	SourceFallback
)

// String returns the source name for reports and logs.
func (s PriceSource) String() string {
	if s == SourceFallback {
		return "fallback"
	}
	return "live"
}

// PriceSet is a complete rate table for the three variable tiers in one
// (region, redundancy) pair.
type PriceSet struct {
	Region     string
	Redundancy models.Redundancy
	Source     PriceSource
	Rates      map[models.StorageTier]models.TierPricing
}

// Approximate reports whether the rates are static fallback estimates
// rather than live catalog data.
func (ps *PriceSet) Approximate() bool {
	return ps.Source == SourceFallback
}

// Client queries the retail price catalog.
type Client struct {
	endpoint string
	http     *http.Client
	maxPages int
}

// NewClient creates a catalog client. An empty endpoint selects the public
// Azure Retail Prices API.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: defaultTimeout},
		maxPages: maxPages,
	}
}

// Wire types for the retail catalog response.
type retailResponse struct {
	Items        []retailItem `json:"Items"`
	NextPageLink string       `json:"NextPageLink"`
	Count        int          `json:"Count"`
}

type retailItem struct {
	RetailPrice   float64 `json:"retailPrice"`
	ArmRegionName string  `json:"armRegionName"`
	SkuName       string  `json:"skuName"`
	ProductName   string  `json:"productName"`
	MeterName     string  `json:"meterName"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	Type          string  `json:"type"`
	ServiceName   string  `json:"serviceName"`
	CurrencyCode  string  `json:"currencyCode"`
}

// FetchTierPricing returns the rate table for a region and redundancy
// scheme. It never fails: network errors, malformed payloads, and
// incomplete meter sets all degrade to the static fallback table, logged
// as warnings. Partial live data is never mixed with fallback data: if
// any tier is missing a mandatory rate, all three tiers fall back.
func (c *Client) FetchTierPricing(ctx context.Context, region string, redundancy models.Redundancy) *PriceSet {
	items, err := c.fetchItems(ctx, region)
	if err != nil {
		log.Warn().Err(err).Str("region", region).Str("redundancy", string(redundancy)).
			Msg("retail pricing fetch failed, using fallback rates")
		return Fallback(region, redundancy)
	}

	rates, ok := extractRates(items, redundancy)
	if !ok {
		log.Warn().Str("region", region).Str("redundancy", string(redundancy)).
			Msg("retail pricing incomplete for at least one tier, using fallback rates for all tiers")
		return Fallback(region, redundancy)
	}

	return &PriceSet{
		Region:     region,
		Redundancy: redundancy,
		Source:     SourceLive,
		Rates:      rates,
	}
}

func (c *Client) fetchItems(ctx context.Context, region string) ([]retailItem, error) {
	filter := fmt.Sprintf(
		"serviceName eq 'Storage' and armRegionName eq '%s' and type eq 'Consumption' and contains(productName, 'Files')",
		region)
	next := c.endpoint + "?$filter=" + url.QueryEscape(filter)

	var items []retailItem
	for page := 0; next != "" && page < c.maxPages; page++ {
		resp, err := c.getPage(ctx, next)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Items...)
		next = resp.NextPageLink
	}
	return items, nil
}

func (c *Client) getPage(ctx context.Context, pageURL string) (*retailResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var page retailResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode catalog page: %w", err)
	}
	return &page, nil
}

// tierSkuLabels maps each variable tier to the label used in catalog SKU
// names such as "Hot LRS" or "Transaction Optimized GRS".
var tierSkuLabels = map[models.StorageTier]string{
	models.TierTransactionOptimized: "Transaction Optimized",
	models.TierHot:                  "Hot",
	models.TierCool:                 "Cool",
}

// extractRates builds the per-tier rate table from catalog items. Data
// Stored and Write Operations are mandatory for every tier; if either is
// absent for any tier the whole live result is discarded (ok == false) so
// cross-tier comparisons never mix live and fallback rates.
func extractRates(items []retailItem, redundancy models.Redundancy) (map[models.StorageTier]models.TierPricing, bool) {
	rates := make(map[models.StorageTier]models.TierPricing, len(tierSkuLabels))

	for tier, label := range tierSkuLabels {
		var p models.TierPricing
		var haveStored, haveWrite bool

		for _, item := range items {
			if !skuMatches(item.SkuName, label, redundancy) {
				continue
			}
			meter := strings.ToLower(item.MeterName)
			switch {
			case strings.Contains(meter, "data stored"):
				p.DataStoredPerGiB = item.RetailPrice
				haveStored = true
			case strings.Contains(meter, "metadata"):
				p.MetadataPerGiB = item.RetailPrice
			case strings.Contains(meter, "write"):
				p.WritePer10K = item.RetailPrice
				haveWrite = true
			case strings.Contains(meter, "list"):
				p.ListPer10K = item.RetailPrice
			case strings.Contains(meter, "read"):
				p.ReadPer10K = item.RetailPrice
			case strings.Contains(meter, "other"), strings.Contains(meter, "protocol"):
				p.OtherPer10K = item.RetailPrice
			case strings.Contains(meter, "data retrieval"):
				p.RetrievalPerGiB = item.RetailPrice
			}
		}

		if !haveStored || !haveWrite {
			return nil, false
		}
		rates[tier] = p
	}

	return rates, true
}

// skuMatches reports whether a SKU name names the given tier and redundancy.
// The redundancy is matched as a suffix so "GRS" does not match "RA-GRS".
func skuMatches(sku, tierLabel string, redundancy models.Redundancy) bool {
	return strings.Contains(sku, tierLabel) && strings.HasSuffix(sku, " "+string(redundancy))
}
