package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"garden-care-backend/internal/parse"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogSQL                 bool   `yaml:"log_sql"`
}

// LogConfig controls the zerolog root logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// SchedulerConfig holds the cadence table of the periodic driver.
type SchedulerConfig struct {
	Enabled                   bool     `yaml:"enabled"`
	RunOnStart                bool     `yaml:"run_on_start"`
	Timezone                  string   `yaml:"timezone"`
	PollIntervalSeconds       int      `yaml:"poll_interval_seconds"`
	EnvironmentRefreshMinutes int      `yaml:"environment_refresh_minutes"`
	GrowthStageAt             string   `yaml:"growth_stage_at"`
	ReminderAt                []string `yaml:"reminder_at"`
	SummaryAt                 string   `yaml:"summary_at"`

	PollInterval       time.Duration  `yaml:"-"`
	EnvironmentRefresh time.Duration  `yaml:"-"`
	Location           *time.Location `yaml:"-"`
	GrowthStage        parse.Clock    `yaml:"-"`
	Reminders          []parse.Clock  `yaml:"-"`
	Summary            parse.Clock    `yaml:"-"`
}

// ReminderConfig holds the reminder engine tunables.
type ReminderConfig struct {
	TaskDedupWindowMinutes  int `yaml:"task_dedup_window_minutes"`
	AlertDedupWindowMinutes int `yaml:"alert_dedup_window_minutes"`
	HarvestLeadDays         int `yaml:"harvest_lead_days"`

	TaskDedupWindow  time.Duration `yaml:"-"`
	AlertDedupWindow time.Duration `yaml:"-"`
}

// SimulationConfig holds the synthetic sensor model tunables.
type SimulationConfig struct {
	WateringHour     int     `yaml:"watering_hour"`
	CloudProbability float64 `yaml:"cloud_probability"`

	// Location is the garden's local time zone, shared with the scheduler.
	Location *time.Location `yaml:"-"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := base()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration populated only with defaults.
func Default() *Config {
	cfg := base()
	// Defaults cannot fail to parse.
	_ = cfg.ApplyDefaults()
	return &cfg
}

// base holds the values a zero field cannot express.
func base() Config {
	var cfg Config
	cfg.Scheduler.Enabled = true
	cfg.Scheduler.RunOnStart = true
	return cfg
}

// ApplyDefaults fills unset fields and derives the parsed values.
func (cfg *Config) ApplyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:garden.db"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := cfg.Scheduler.applyDefaults(); err != nil {
		return err
	}

	if cfg.Reminder.TaskDedupWindowMinutes <= 0 {
		cfg.Reminder.TaskDedupWindowMinutes = 6 * 60
	}
	if cfg.Reminder.AlertDedupWindowMinutes <= 0 {
		cfg.Reminder.AlertDedupWindowMinutes = 60
	}
	if cfg.Reminder.HarvestLeadDays <= 0 {
		cfg.Reminder.HarvestLeadDays = 3
	}
	cfg.Reminder.TaskDedupWindow = time.Duration(cfg.Reminder.TaskDedupWindowMinutes) * time.Minute
	cfg.Reminder.AlertDedupWindow = time.Duration(cfg.Reminder.AlertDedupWindowMinutes) * time.Minute

	// Midnight watering is not configurable; 0 means unset.
	if cfg.Simulation.WateringHour <= 0 || cfg.Simulation.WateringHour > 23 {
		cfg.Simulation.WateringHour = 8
	}
	if cfg.Simulation.CloudProbability <= 0 || cfg.Simulation.CloudProbability > 1 {
		cfg.Simulation.CloudProbability = 0.2
	}
	cfg.Simulation.Location = cfg.Scheduler.Location
	return nil
}

func (s *SchedulerConfig) applyDefaults() error {
	if s.PollIntervalSeconds <= 0 {
		s.PollIntervalSeconds = 10
	}
	s.PollInterval = time.Duration(s.PollIntervalSeconds) * time.Second

	if s.EnvironmentRefreshMinutes <= 0 {
		s.EnvironmentRefreshMinutes = 5
	}
	s.EnvironmentRefresh = time.Duration(s.EnvironmentRefreshMinutes) * time.Minute

	if s.Timezone == "" {
		s.Timezone = "Local"
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load scheduler timezone %q: %w", s.Timezone, err)
	}
	s.Location = loc

	if s.GrowthStageAt == "" {
		s.GrowthStageAt = "00:00"
	}
	if s.GrowthStage, err = parse.ParseClock(s.GrowthStageAt); err != nil {
		return fmt.Errorf("scheduler.growth_stage_at: %w", err)
	}

	if len(s.ReminderAt) == 0 {
		s.ReminderAt = []string{"06:00", "12:00", "18:00"}
	}
	s.Reminders = s.Reminders[:0]
	for _, raw := range s.ReminderAt {
		c, err := parse.ParseClock(raw)
		if err != nil {
			return fmt.Errorf("scheduler.reminder_at: %w", err)
		}
		s.Reminders = append(s.Reminders, c)
	}

	if s.SummaryAt == "" {
		s.SummaryAt = "23:00"
	}
	if s.Summary, err = parse.ParseClock(s.SummaryAt); err != nil {
		return fmt.Errorf("scheduler.summary_at: %w", err)
	}
	return nil
}
