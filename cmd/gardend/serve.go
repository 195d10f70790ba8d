package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"garden-care-backend/internal/api"
)

const shutdownTimeout = 5 * time.Second

func getServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP API and the job scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			gin.SetMode(gin.ReleaseMode)
			handler := api.NewHandler(a.catalog, a.reminders, a.monitor, a.scheduler, logger)
			server := &http.Server{
				Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
				Handler: api.NewRouter(handler, cfg.Server, logger),
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("HTTP server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				logger.Info().Msg("shutting down HTTP server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})
			if cfg.Scheduler.Enabled {
				g.Go(func() error {
					if cfg.Scheduler.RunOnStart {
						a.scheduler.RunStartup(gctx)
					}
					return a.scheduler.Run(gctx)
				})
			} else {
				logger.Info().Msg("scheduler is disabled")
			}

			if err := g.Wait(); err != nil {
				return err
			}
			logger.Info().Msg("server gracefully stopped")
			return nil
		},
	}
}
