package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func getRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <job>",
		Short: "Runs one scheduled job immediately and exits",
		Long: `Runs one of the scheduled jobs once, outside the scheduler loop:
  environment_refresh, growth_stage, reminders, daily_summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.TrimSpace(args[0])
			return a.scheduler.RunNow(ctx, name)
		},
	}
}
