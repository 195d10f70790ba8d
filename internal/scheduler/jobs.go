package scheduler

import (
	"context"
	"time"

	"garden-care-backend/config"
	"garden-care-backend/internal/environment"
	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
)

// Default job names.
const (
	JobEnvironment  = "environment_refresh"
	JobGrowthStage  = "growth_stage"
	JobReminders    = "reminders"
	JobDailySummary = "daily_summary"
)

// StartupJobs run once, in this order, when the service boots.
var StartupJobs = []string{JobGrowthStage, JobEnvironment, JobReminders}

// Services are the operations the default jobs drive.
type Services struct {
	Growth interface {
		AdvanceAll(ctx context.Context) (updated, total int, err error)
	}
	Reminders interface {
		Generate(ctx context.Context, userID *int64) ([]model.Reminder, error)
	}
	Environment interface {
		RefreshAll(ctx context.Context) (environment.RefreshResult, error)
	}
	Store store.Store
}

// RegisterDefaults installs the standard job table.
func (s *Scheduler) RegisterDefaults(cfg config.SchedulerConfig, svc Services) error {
	jobs := []Job{
		{
			Name:     JobEnvironment,
			Schedule: Every(cfg.EnvironmentRefresh),
			Run: func(ctx context.Context) error {
				_, err := svc.Environment.RefreshAll(ctx)
				return err
			},
		},
		{
			Name:     JobGrowthStage,
			Schedule: DailyAt(cfg.Location, cfg.GrowthStage),
			Run: func(ctx context.Context) error {
				_, _, err := svc.Growth.AdvanceAll(ctx)
				return err
			},
		},
		{
			Name:     JobReminders,
			Schedule: DailyAt(cfg.Location, cfg.Reminders...),
			Run: func(ctx context.Context) error {
				_, err := svc.Reminders.Generate(ctx, nil)
				return err
			},
		},
		{
			Name:     JobDailySummary,
			Schedule: DailyAt(cfg.Location, cfg.Summary),
			Run: func(ctx context.Context) error {
				return s.summarize(ctx, svc.Store, cfg.Location)
			},
		},
	}
	for _, job := range jobs {
		if err := s.Register(job); err != nil {
			return err
		}
	}
	return nil
}

// summarize logs the counters of the current local day and refreshes the
// backlog gauges.
func (s *Scheduler) summarize(ctx context.Context, st store.Store, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	now := s.now()
	local := now.In(loc)
	from := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	sum, err := st.DailySummary(ctx, from.UTC(), now.UTC())
	if err != nil {
		return err
	}
	metrics.RemindersPending.Set(float64(sum.RemindersPending))
	metrics.ActivePlantings.Set(float64(sum.ActivePlantings))

	s.logger.Info().
		Str("day", from.Format(time.DateOnly)).
		Int64("reminders_created", sum.RemindersCreated).
		Int64("reminders_completed", sum.RemindersDone).
		Int64("reminders_pending", sum.RemindersPending).
		Int64("active_plantings", sum.ActivePlantings).
		Int64("readings", sum.ReadingsRecorded).
		Int64("abnormal_readings", sum.AbnormalReadings).
		Msg("daily summary")
	return nil
}

// RunStartup runs StartupJobs once. Failures are logged and do not stop the
// remaining jobs.
func (s *Scheduler) RunStartup(ctx context.Context) {
	for _, name := range StartupJobs {
		if ctx.Err() != nil {
			return
		}
		if err := s.RunNow(ctx, name); err != nil {
			s.logger.Warn().Err(err).Str("job", name).Msg("startup job failed")
		}
	}
}
