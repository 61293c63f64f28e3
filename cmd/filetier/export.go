package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gplima89/filetier/pkg/export"
	"github.com/gplima89/filetier/pkg/store"
)

func newExportCmd() *cobra.Command {
	var (
		configPath string
		kind       string
		account    string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export inventory or saved recommendations as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			out := os.Stdout
			if outPath != "" {
				out, err = os.Create(outPath)
				if err != nil {
					return err
				}
				defer func() { _ = out.Close() }()
			}

			ctx := context.Background()
			switch kind {
			case "inventory":
				n, err := export.WriteFileRecordsCSV(ctx, out, st)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "exported %d file records\n", n)
			case "recommendations":
				recs, err := st.ListRecommendations(ctx, account)
				if err != nil {
					return err
				}
				if err := export.WriteRecommendationsCSV(out, recs); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "exported %d recommendations\n", len(recs))
			default:
				return fmt.Errorf("unknown export kind %q (use inventory or recommendations)", kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to filetier config file")
	cmd.Flags().StringVar(&kind, "kind", "inventory", "what to export: inventory or recommendations")
	cmd.Flags().StringVar(&account, "account", "", "filter recommendations by storage account")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}
