package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"garden-care-backend/config"
	"garden-care-backend/internal/model"
)

// Models lists every table owned by the service, in migration order.
var Models = []any{
	&model.Garden{},
	&model.Crop{},
	&model.GrowthStageRule{},
	&model.PlantingRecord{},
	&model.Sensor{},
	&model.Reading{},
	&model.Reminder{},
}

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	log = log.With().Str("component", "db").Logger()

	dialector, kind := Dialector(cfg.DSN)
	logMode := logger.Silent
	if cfg.LogSQL {
		logMode = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logMode),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Info().Str("driver", kind).Msg("running database migrations")
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if kind == "postgres" {
		if err := applyPostgresDDL(db); err != nil {
			log.Warn().Err(err).Msg("failed to apply postgres-specific DDL, continuing without it")
		}
	}

	log.Info().Msg("database initialization complete")
	return db, nil
}

// Dialector picks the gorm driver for a DSN. URLs and key/value strings go
// to postgres, everything else is treated as a sqlite file.
func Dialector(dsn string) (gorm.Dialector, string) {
	trimmed := strings.TrimSpace(dsn)
	if strings.HasPrefix(trimmed, "postgres://") ||
		strings.HasPrefix(trimmed, "postgresql://") ||
		strings.Contains(trimmed, "host=") {
		return postgres.Open(trimmed), "postgres"
	}
	return sqlite.Open(trimmed), "sqlite"
}

func applyPostgresDDL(db *gorm.DB) error {
	ddls := []string{
		// Latest-reading lookups scan newest first.
		"CREATE INDEX IF NOT EXISTS idx_reading_sensor_time_desc ON readings (sensor_id, reading_time DESC);",

		// Priority is a 1-5 scale.
		"ALTER TABLE reminders DROP CONSTRAINT IF EXISTS reminders_priority_range;",
		"ALTER TABLE reminders ADD CONSTRAINT reminders_priority_range CHECK (priority BETWEEN 1 AND 5);",

		// Pending reminders are the hot path of the dedup check.
		"CREATE INDEX IF NOT EXISTS idx_reminder_pending ON reminders (user_id, planting_record_id, reminder_type, created_at DESC) WHERE status = 'pending';",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
