package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gplima89/filetier/pkg/store"
)

func newImportCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "import <operations.csv>",
		Short: "Import exported transaction telemetry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			ops, err := store.ParseOperationsCSV(f)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			if err := st.ImportOperations(context.Background(), ops); err != nil {
				return err
			}

			fmt.Printf("imported %d operation rows\n", len(ops))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to filetier config file")

	return cmd
}
