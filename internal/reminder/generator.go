// Package reminder turns stage rules, abnormal readings and harvest dates
// into deduplicated, prioritized reminders.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"garden-care-backend/config"
	"garden-care-backend/internal/catalog"
	"garden-care-backend/internal/growth"
	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

var taskPriority = map[model.ReminderType]int{
	model.ReminderWatering:    4,
	model.ReminderFertilizing: 3,
	model.ReminderWeeding:     2,
	model.ReminderPestCheck:   3,
}

const harvestPriority = 5

// CropLookup resolves catalog crops, with their ordered stage rules.
type CropLookup interface {
	Crop(ctx context.Context, id int64) (*model.Crop, error)
}

// StageUpdater recomputes a planting's growth stage.
type StageUpdater interface {
	UpdateGrowthStage(ctx context.Context, plantingID int64) (bool, error)
}

// Generator evaluates and manages reminders.
type Generator struct {
	store   store.Store
	crops   CropLookup
	tracker StageUpdater
	cfg     config.ReminderConfig
	now     func() time.Time
	logger  zerolog.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a generator.
func NewGenerator(st store.Store, crops CropLookup, tracker StageUpdater, cfg config.ReminderConfig, logger zerolog.Logger, opts ...Option) *Generator {
	g := &Generator{
		store:   st,
		crops:   crops,
		tracker: tracker,
		cfg:     cfg,
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger.With().Str("component", "reminder").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// candidate is a reminder that has not been deduplicated yet.
type candidate struct {
	reminder model.Reminder
	window   time.Duration
}

// Generate evaluates every growing planting, or only userID's when set, and
// returns the reminders that now stand for each due task, alert and harvest.
// Each planting is processed in its own transaction; a failing planting is
// logged and skipped.
func (g *Generator) Generate(ctx context.Context, userID *int64) ([]model.Reminder, error) {
	plantings, err := g.store.GrowingPlantings(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := g.now()
	seen := make(map[int64]bool)
	out := []model.Reminder{}
	for i := range plantings {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		p := &plantings[i]

		var saved []model.Reminder
		err := g.store.Transaction(ctx, func(tx store.Store) error {
			var err error
			saved, err = g.forPlanting(ctx, tx, p, now)
			return err
		})
		if err != nil {
			g.logger.Error().Err(err).Int64("planting_id", p.ID).Msg("failed to generate reminders")
			continue
		}
		for _, r := range saved {
			if seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			out = append(out, r)
		}
	}

	g.logger.Info().Int("plantings", len(plantings)).Int("reminders", len(out)).Msg("reminders generated")
	return out, nil
}

func (g *Generator) forPlanting(ctx context.Context, tx store.Store, p *model.PlantingRecord, now time.Time) ([]model.Reminder, error) {
	crop, err := g.crops.Crop(ctx, p.CropID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var candidates []candidate
	tasks, err := g.taskCandidates(ctx, tx, p, crop, now)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, tasks...)

	alerts, err := g.alertCandidates(ctx, tx, p, crop, now)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, alerts...)

	harvest, err := g.harvestCandidate(ctx, tx, p, crop, now)
	if err != nil {
		return nil, err
	}
	if harvest != nil {
		candidates = append(candidates, *harvest)
	}

	saved := make([]model.Reminder, 0, len(candidates))
	for _, c := range candidates {
		r, err := g.persist(ctx, tx, c, now)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *r)
	}
	return saved, nil
}

func base(p *model.PlantingRecord, t model.ReminderType, now time.Time) model.Reminder {
	gardenID, plantingID := p.GardenID, p.ID
	return model.Reminder{
		UserID:           p.UserID,
		GardenID:         &gardenID,
		PlantingRecordID: &plantingID,
		ReminderType:     t,
		RemindTime:       now,
		Source:           model.SourceRuleBased,
		Status:           model.ReminderPending,
		Priority:         taskPriority[t],
	}
}

func (g *Generator) taskCandidates(ctx context.Context, tx store.Store, p *model.PlantingRecord, crop *model.Crop, now time.Time) ([]candidate, error) {
	rule := catalog.RuleFor(crop.Stages, p.CurrentStage)
	if rule == nil {
		return nil, nil
	}

	var out []candidate
	for _, t := range model.TaskTypes {
		freq, ok := rule.FrequencyFor(t)
		if !ok {
			continue
		}
		last, err := tx.LastCompletion(ctx, p.ID, t)
		if err != nil {
			return nil, err
		}
		// Never done counts as overdue.
		daysSince := freq + 1
		if last != nil {
			daysSince = growth.DaysSince(*last, now)
		}
		if daysSince < freq {
			continue
		}

		r := base(p, t, now)
		taskCtx := model.TaskContext{CropName: crop.Name, GrowthStage: p.CurrentStage, FrequencyDays: freq}
		var payload model.Payload
		switch t {
		case model.ReminderWatering:
			amount := 0.0
			if rule.WateringAmount != nil {
				amount = *rule.WateringAmount
			}
			r.Title = fmt.Sprintf("Time to water the %s", crop.Name)
			r.Description = fmt.Sprintf("Suggested amount: %g liters", amount)
			payload = &model.WateringPayload{TaskContext: taskCtx, AmountLiters: amount}
		case model.ReminderFertilizing:
			r.Title = fmt.Sprintf("Time to fertilize the %s", crop.Name)
			r.Description = fmt.Sprintf("Recommended fertilizer: %s", rule.FertilizerType)
			payload = &model.FertilizingPayload{TaskContext: taskCtx, FertilizerType: rule.FertilizerType}
		case model.ReminderWeeding:
			r.Title = fmt.Sprintf("%s needs weeding", crop.Name)
			r.Description = "Clear weeds before they compete with the crop for nutrients."
			payload = &model.WeedingPayload{TaskContext: taskCtx}
		case model.ReminderPestCheck:
			pests := "common pests and diseases"
			if len(crop.CommonPests) > 0 {
				pests = strings.Join(crop.CommonPests, ", ")
			}
			r.Title = fmt.Sprintf("Check the %s for pests", crop.Name)
			r.Description = fmt.Sprintf("Watch for: %s", pests)
			payload = &model.PestCheckPayload{TaskContext: taskCtx, CommonPests: crop.CommonPests}
		}
		if err := r.SetPayload(payload); err != nil {
			return nil, err
		}
		out = append(out, candidate{reminder: r, window: g.cfg.TaskDedupWindow})
	}
	return out, nil
}

func alertPriority(m model.Metric) int {
	if m == model.MetricTemperature || m == model.MetricSoilMoisture {
		return 5
	}
	return 4
}

func (g *Generator) alertCandidates(ctx context.Context, tx store.Store, p *model.PlantingRecord, crop *model.Crop, now time.Time) ([]candidate, error) {
	if crop.Requirements().Empty() {
		return nil, nil
	}
	sensors, err := tx.ActiveSensors(ctx, p.GardenID)
	if err != nil {
		return nil, err
	}

	var out []candidate
	for _, sensor := range sensors {
		latest, err := tx.LatestReading(ctx, sensor.ID)
		if errors.Is(err, model.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if !latest.IsAbnormal {
			continue
		}

		gardenID := p.GardenID
		_, err = tx.FindPendingReminder(ctx, store.ReminderKey{
			UserID:   p.UserID,
			GardenID: &gardenID,
			Type:     model.ReminderEnvironmentAlert,
		}, now.Add(-g.cfg.AlertDedupWindow))
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}

		r := base(p, model.ReminderEnvironmentAlert, now)
		r.Title = fmt.Sprintf("%s environment alert", crop.Name)
		r.Description = latest.AbnormalReason
		r.Priority = alertPriority(sensor.SensorType)
		r.Source = model.SourceIoTTriggered
		if err := r.SetPayload(&model.EnvironmentAlertPayload{
			CropName:       crop.Name,
			SensorID:       sensor.ID,
			SensorType:     sensor.SensorType,
			Value:          latest.Value,
			Unit:           latest.Unit,
			AbnormalReason: latest.AbnormalReason,
			ReadingTime:    latest.ReadingTime,
		}); err != nil {
			return nil, err
		}
		out = append(out, candidate{reminder: r, window: g.cfg.AlertDedupWindow})
	}
	return out, nil
}

func (g *Generator) harvestCandidate(ctx context.Context, tx store.Store, p *model.PlantingRecord, crop *model.Crop, now time.Time) (*candidate, error) {
	if p.ExpectedHarvestDate == nil {
		return nil, nil
	}
	daysUntil := growth.DaysSince(now, *p.ExpectedHarvestDate)
	if daysUntil < 0 || daysUntil > g.cfg.HarvestLeadDays {
		return nil, nil
	}

	plantingID := p.ID
	_, err := tx.FindPendingReminder(ctx, store.ReminderKey{
		UserID:           p.UserID,
		PlantingRecordID: &plantingID,
		Type:             model.ReminderHarvest,
	}, time.Time{})
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	r := base(p, model.ReminderHarvest, now)
	r.Title = fmt.Sprintf("%s is almost ready to harvest", crop.Name)
	r.Description = fmt.Sprintf("Expected harvest in %d days, get ready.", daysUntil)
	r.Priority = harvestPriority
	if err := r.SetPayload(&model.HarvestPayload{
		CropName:            crop.Name,
		ExpectedHarvestDate: *p.ExpectedHarvestDate,
		DaysUntilHarvest:    daysUntil,
	}); err != nil {
		return nil, err
	}
	return &candidate{reminder: r, window: g.cfg.TaskDedupWindow}, nil
}

// persist stores c unless a pending reminder with the same user, planting and
// type was created inside c's window, in which case that one is returned.
func (g *Generator) persist(ctx context.Context, tx store.Store, c candidate, now time.Time) (*model.Reminder, error) {
	r := c.reminder
	existing, err := tx.FindPendingReminder(ctx, store.ReminderKey{
		UserID:           r.UserID,
		PlantingRecordID: r.PlantingRecordID,
		Type:             r.ReminderType,
	}, now.Add(-c.window))
	if err == nil {
		metrics.RemindersDeduplicatedTotal.WithLabelValues(string(r.ReminderType)).Inc()
		return existing, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	r.CreatedAt = now
	if err := tx.CreateReminder(ctx, &r); err != nil {
		return nil, err
	}
	metrics.RemindersCreatedTotal.WithLabelValues(string(r.ReminderType), string(r.Source)).Inc()
	return &r, nil
}
