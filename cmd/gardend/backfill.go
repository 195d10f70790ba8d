package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getBackfillCmd() *cobra.Command {
	var (
		gardenID int64
		days     int
		interval int
	)
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Generates simulated sensor history for a garden",
		Example: `  gardend backfill --garden 3
  gardend backfill --garden 3 --days 14 --interval 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if gardenID <= 0 {
				return fmt.Errorf("--garden is required")
			}
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.monitor.GenerateHistory(ctx, gardenID, days, interval)
			if err != nil {
				return err
			}
			logger.Info().
				Int64("garden_id", summary.GardenID).
				Int("readings", summary.TotalReadings).
				Int("sensors", summary.Sensors).
				Time("start", summary.Start).
				Time("end", summary.End).
				Msg("backfill complete")
			return nil
		},
	}
	cmd.Flags().Int64Var(&gardenID, "garden", 0, "garden id")
	cmd.Flags().IntVar(&days, "days", 7, "days of history to generate")
	cmd.Flags().IntVar(&interval, "interval", 30, "minutes between samples")
	return cmd
}
