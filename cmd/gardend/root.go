package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"garden-care-backend/config"
)

const defaultConfigPath = "./config/config.yaml"

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gardend",
		Short: "gardend runs the garden care backend",
		Long: `gardend tracks crop growth stages, monitors garden sensors and
generates care reminders for garden plot tenants.

Configuration is read from --config, then $CONFIG_PATH, then
./config/config.yaml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = os.Getenv("CONFIG_PATH")
			}
			if path == "" {
				path = defaultConfigPath
			}

			loaded, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load configuration from %s: %w", path, err)
			}
			cfg = loaded

			if logger, err = newLogger(cfg.Log); err != nil {
				return err
			}
			logger.Info().Str("config", path).Msg("configuration loaded")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: $CONFIG_PATH or "+defaultConfigPath+")")

	rootCmd.AddCommand(
		getServeCmd(),
		getSeedCmd(),
		getBackfillCmd(),
		getRunCmd(),
	)
	return rootCmd
}

func newLogger(c config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var l zerolog.Logger
	if c.Pretty {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		l = zerolog.New(os.Stdout)
	}
	return l.Level(level).With().Timestamp().Str("service", "gardend").Logger(), nil
}
