package main

import (
	"github.com/spf13/cobra"
)

func getSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrates the database and loads the builtin crop catalog",
		Long: `Migrates the schema and inserts the builtin crops that are not present
yet. Existing crops are left untouched, so the command is safe to repeat.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			crops, err := a.catalog.Crops(ctx)
			if err != nil {
				return err
			}
			logger.Info().Int("crops", len(crops)).Msg("crop catalog ready")
			return nil
		},
	}
}
