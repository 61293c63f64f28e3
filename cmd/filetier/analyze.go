package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/gplima89/filetier/pkg/analyze"
	"github.com/gplima89/filetier/pkg/costmodel"
	"github.com/gplima89/filetier/pkg/export"
	"github.com/gplima89/filetier/pkg/models"
	"github.com/gplima89/filetier/pkg/pricing"
	"github.com/gplima89/filetier/pkg/recommend"
	"github.com/gplima89/filetier/pkg/store"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		configPath string
		account    string
		csvPath    string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Recommend a storage tier per share from scanned capacity and telemetry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if len(cfg.Accounts) == 0 {
				return fmt.Errorf("no accounts configured; nothing to analyze")
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			analyzer := analyze.New(
				analyze.NewConfigSnapshots(cfg.Accounts, st),
				st,
				pricing.NewCache(pricing.NewClient(cfg.Pricing.Endpoint)),
				recommend.New(costmodel.NewWithMetadataRatio(cfg.MetadataRatio)),
				cfg.WindowDays,
			)

			targets := analyze.TargetsFromConfig(cfg.Accounts)
			if account != "" {
				targets = filterTargets(targets, account)
			}

			ctx := context.Background()
			recs, err := analyzer.Run(ctx, targets)
			if err != nil {
				return err
			}

			fmt.Print(formatRecommendationTable(recs))

			if save {
				for _, rec := range recs {
					if err := st.SaveRecommendation(ctx, rec); err != nil {
						return err
					}
				}
			}
			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				if err := export.WriteRecommendationsCSV(f, recs); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to filetier config file")
	cmd.Flags().StringVar(&account, "account", "", "analyze only this storage account")
	cmd.Flags().StringVar(&csvPath, "csv", "", "also write recommendations to this CSV file")
	cmd.Flags().BoolVar(&save, "save", false, "persist recommendations to the database")

	return cmd
}

func filterTargets(targets []analyze.Target, account string) []analyze.Target {
	var out []analyze.Target
	for _, t := range targets {
		if t.Account == account {
			out = append(out, t)
		}
	}
	return out
}

func formatRecommendationTable(recs []models.Recommendation) string {
	if len(recs) == 0 {
		return "No recommendations.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-20s %-10s %-12s %12s %12s %12s\n",
		"ACCOUNT", "SHARE", "CURRENT", "RECOMMENDED", "CURRENT/MO", "BEST/MO", "SAVINGS/MO")
	b.WriteString(strings.Repeat("-", 106) + "\n")

	var total float64
	for _, r := range recs {
		tier := string(r.RecommendedTier)
		if r.Approximate {
			tier += "*"
		}
		fmt.Fprintf(&b, "%-20s %-20s %-10s %-12s %12s %12s %12s\n",
			r.StorageAccount, r.Share, string(r.CurrentTier), tier,
			dollars(r.CurrentCost), dollars(r.RecommendedCost), dollars(r.MonthlySavings))
		total += r.MonthlySavings
	}
	b.WriteString(strings.Repeat("-", 106) + "\n")
	fmt.Fprintf(&b, "%91s %12s\n", "TOTAL SAVINGS:", dollars(total))

	for _, r := range recs {
		if r.ActionNeeded {
			fmt.Fprintf(&b, "\n%s/%s: %s", r.StorageAccount, r.Share, r.Reason)
		}
	}
	if hasApproximate(recs) {
		b.WriteString("\n* estimate uses approximate fallback rates\n")
	} else {
		b.WriteString("\n")
	}
	return b.String()
}

func hasApproximate(recs []models.Recommendation) bool {
	for _, r := range recs {
		if r.Approximate {
			return true
		}
	}
	return false
}

func dollars(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}
