package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden-care-backend/internal/parse"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_SampleFile(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "file:garden.db", cfg.Database.DSN)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.PollInterval)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.EnvironmentRefresh)
	assert.Equal(t, "Asia/Shanghai", cfg.Scheduler.Location.String())
	assert.Same(t, cfg.Scheduler.Location, cfg.Simulation.Location)
	assert.Equal(t, []parse.Clock{{Hour: 6}, {Hour: 12}, {Hour: 18}}, cfg.Scheduler.Reminders)
	assert.Equal(t, parse.Clock{Hour: 23}, cfg.Scheduler.Summary)
	assert.Equal(t, 6*time.Hour, cfg.Reminder.TaskDedupWindow)
	assert.Equal(t, time.Hour, cfg.Reminder.AlertDedupWindow)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server:\n  port: 9090\nscheduler:\n  timezone: UTC\n"))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, parse.Clock{}, cfg.Scheduler.GrowthStage)
	assert.Len(t, cfg.Scheduler.Reminders, 3)
	assert.Equal(t, 3, cfg.Reminder.HarvestLeadDays)
	assert.Equal(t, 8, cfg.Simulation.WateringHour)
	assert.Equal(t, 0.2, cfg.Simulation.CloudProbability)
	assert.True(t, cfg.Scheduler.Enabled)

	cfg, err = Load(writeConfig(t, "scheduler:\n  enabled: false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Scheduler.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "Bad clock", body: "scheduler:\n  reminder_at: [\"6pm\"]\n"},
		{name: "Bad timezone", body: "scheduler:\n  timezone: Mars/Olympus\n"},
		{name: "Bad yaml", body: "server: [\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.Scheduler.Enabled)
	assert.True(t, cfg.Scheduler.RunOnStart)
	assert.NotNil(t, cfg.Scheduler.Location)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.EnvironmentRefresh)
}
