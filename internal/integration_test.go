package internal

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garden-care-backend/config"
	"garden-care-backend/internal/catalog"
	"garden-care-backend/internal/environment"
	"garden-care-backend/internal/growth"
	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/reminder"
	"garden-care-backend/internal/scheduler"
	"garden-care-backend/internal/store"
	dbtest "garden-care-backend/internal/testutil"
)

// TestGardenDay drives one garden through a scheduled day: startup jobs,
// a heat wave, the midday reminder run and the nightly summary.
func TestGardenDay(t *testing.T) {
	// --- Test Setup ---
	ctx := context.Background()
	gormDB := dbtest.NewDB(t)
	st := store.NewGormStore(gormDB)

	cfg := config.Default()
	cfg.Scheduler.Location = time.UTC
	cfg.Simulation.Location = time.UTC

	// A mild spring morning keeps every startup reading within the tomato bands.
	now := time.Date(2024, 4, 15, 5, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	cat := catalog.New(st, time.Minute, zerolog.Nop())
	_, err := cat.Seed(ctx)
	require.NoError(t, err)
	crops, err := cat.Crops(ctx)
	require.NoError(t, err)

	tracker := growth.NewTracker(st, cat, zerolog.Nop(), growth.WithClock(clock))
	gen := reminder.NewGenerator(st, cat, tracker, cfg.Reminder, zerolog.Nop(), reminder.WithClock(clock))
	sim := environment.NewSimulator(rand.NewPCG(42, 42), cfg.Simulation)
	monitor := environment.NewMonitor(st, cat, sim, zerolog.Nop(), environment.WithClock(clock))
	sched := scheduler.New(cfg.Scheduler.PollInterval, zerolog.Nop(), scheduler.WithClock(clock))
	require.NoError(t, sched.RegisterDefaults(cfg.Scheduler, scheduler.Services{
		Growth: tracker, Reminders: gen, Environment: monitor, Store: st,
	}))

	garden := model.Garden{Name: "North plot"}
	require.NoError(t, gormDB.Create(&garden).Error)
	planted := now.AddDate(0, 0, -10)
	planting := model.PlantingRecord{
		GardenID: garden.ID, CropID: crops[0].ID, UserID: 7, PlantingDate: &planted,
		CurrentStage: model.StageSeed, CurrentStageDay: 1, Status: model.PlantingGrowing,
	}
	require.NoError(t, gormDB.Create(&planting).Error)

	// --- Startup ---
	sched.RunStartup(ctx)

	got, err := st.GetPlanting(ctx, planting.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageSeedling, got.CurrentStage)
	assert.Equal(t, 4, got.CurrentStageDay)

	pending := model.ReminderPending
	reminders, err := gen.List(ctx, 7, store.ReminderFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, reminders, len(model.TaskTypes))

	status, err := monitor.CurrentStatus(ctx, garden.ID, false)
	require.NoError(t, err)
	assert.Len(t, status.Sensors, len(model.Metrics))

	// --- Heat wave ---
	now = now.Add(30 * time.Minute)
	event, err := monitor.CreateWeatherEvent(ctx, garden.ID, model.WeatherHeatWave, 4)
	require.NoError(t, err)
	require.NotEmpty(t, event.Affected)

	generated, err := gen.Generate(ctx, &planting.UserID)
	require.NoError(t, err)
	var alerts []model.Reminder
	for _, r := range generated {
		if r.ReminderType == model.ReminderEnvironmentAlert {
			alerts = append(alerts, r)
		}
	}
	require.Len(t, alerts, 1)
	assert.Equal(t, 5, alerts[0].Priority)
	assert.Equal(t, model.SourceIoTTriggered, alerts[0].Source)
	// Task reminders from startup are returned, not duplicated.
	assert.Len(t, generated, len(model.TaskTypes)+1)

	for _, r := range generated {
		if r.ReminderType == model.ReminderWatering {
			ok, err := gen.Complete(ctx, r.ID, 7)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	}

	// --- Scheduled day ---
	assert.Equal(t, 0, sched.Tick(ctx, now), "first tick only arms the jobs")

	now = time.Date(2024, 4, 15, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, sched.Tick(ctx, now), "environment refresh and reminders")

	now = time.Date(2024, 4, 15, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, sched.Tick(ctx, now), "environment refresh, reminders and summary")

	var pendingCount int64
	require.NoError(t, gormDB.Model(&model.Reminder{}).Where("status = ?", model.ReminderPending).Count(&pendingCount).Error)
	assert.Equal(t, float64(pendingCount), testutil.ToFloat64(metrics.RemindersPending))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActivePlantings))

	// Watering was done this morning and is due every two days.
	watering := model.ReminderWatering
	waterings, err := gen.List(ctx, 7, store.ReminderFilter{Type: &watering})
	require.NoError(t, err)
	assert.Len(t, waterings, 1)
	assert.Equal(t, model.ReminderCompleted, waterings[0].Status)

	stats, err := gen.Statistics(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, pendingCount, stats.Pending)
}
