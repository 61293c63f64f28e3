package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gplima89/filetier/pkg/models"
	"github.com/gplima89/filetier/pkg/pricing"
)

func newPricingCmd() *cobra.Command {
	var (
		configPath string
		region     string
		redundancy string
	)

	cmd := &cobra.Command{
		Use:   "pricing",
		Short: "Show the per-tier rates used for cost estimates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			client := pricing.NewClient(cfg.Pricing.Endpoint)
			set := client.FetchTierPricing(context.Background(), region, models.Redundancy(redundancy))

			fmt.Print(formatRateTable(set))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to filetier config file")
	cmd.Flags().StringVar(&region, "region", "eastus", "catalog region")
	cmd.Flags().StringVar(&redundancy, "redundancy", "LRS", "redundancy SKU (LRS, ZRS, GRS, ...)")

	return cmd
}

func formatRateTable(set *pricing.PriceSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Region: %s  Redundancy: %s  Source: %s\n\n",
		set.Region, set.Redundancy, set.Source)
	fmt.Fprintf(&b, "%-22s %10s %10s %10s %10s %10s %10s %10s\n",
		"TIER", "GIB/MO", "META/GIB", "WRITE/10K", "LIST/10K", "READ/10K", "OTHER/10K", "RETR/GIB")
	b.WriteString(strings.Repeat("-", 102) + "\n")

	for _, tier := range models.VariableTiers() {
		r, ok := set.Rates[tier]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-22s %10.4f %10.4f %10.4f %10.4f %10.4f %10.4f %10.4f\n",
			string(tier), r.DataStoredPerGiB, r.MetadataPerGiB,
			r.WritePer10K, r.ListPer10K, r.ReadPer10K, r.OtherPer10K, r.RetrievalPerGiB)
	}
	return b.String()
}
