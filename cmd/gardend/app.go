package main

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"garden-care-backend/config"
	"garden-care-backend/internal/catalog"
	"garden-care-backend/internal/db"
	"garden-care-backend/internal/environment"
	"garden-care-backend/internal/growth"
	"garden-care-backend/internal/reminder"
	"garden-care-backend/internal/scheduler"
	"garden-care-backend/internal/store"
)

// app is the wired service graph shared by every command.
type app struct {
	db        *gorm.DB
	store     store.Store
	catalog   *catalog.Catalog
	tracker   *growth.Tracker
	reminders *reminder.Generator
	monitor   *environment.Monitor
	scheduler *scheduler.Scheduler
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	gormDB, err := db.Init(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Info().Msg("database initialized")

	st := store.NewGormStore(gormDB)
	cat := catalog.New(st, time.Duration(cfg.Server.CacheTTLSeconds)*time.Second, logger)
	if _, err := cat.Seed(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed crop catalog: %w", err)
	}

	tracker := growth.NewTracker(st, cat, logger)
	a := &app{
		db:        gormDB,
		store:     st,
		catalog:   cat,
		tracker:   tracker,
		reminders: reminder.NewGenerator(st, cat, tracker, cfg.Reminder, logger),
		monitor:   environment.NewMonitor(st, cat, environment.NewSimulator(nil, cfg.Simulation), logger),
		scheduler: scheduler.New(cfg.Scheduler.PollInterval, logger),
	}
	err = a.scheduler.RegisterDefaults(cfg.Scheduler, scheduler.Services{
		Growth:      a.tracker,
		Reminders:   a.reminders,
		Environment: a.monitor,
		Store:       st,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
