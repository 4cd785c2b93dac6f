package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mediawar/blockbuster/config"
	"github.com/mediawar/blockbuster/script"
)

func newExportCommand(configPath *string) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Re-export a saved run as table, CSV and JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			items, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, item := range items {
				if item.ID != args[0] {
					continue
				}
				out := script.StageOutput{Blocks: item.Blocks}
				if err := writeExports(outDir, item.Topic, item.ModelID, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exports written to %s\n", outDir)
				return nil
			}
			return fmt.Errorf("no run with id %s", args[0])
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "directory for the export files")
	return cmd
}
