// Package growth advances planting records through their crop's stages.
package growth

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"

	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
)

// RuleSource supplies a crop's stage rules ordered by sequence.
type RuleSource interface {
	StageRules(ctx context.Context, cropID int64) ([]model.GrowthStageRule, error)
}

// Tracker recomputes the current stage of planting records from elapsed time.
type Tracker struct {
	store  store.Store
	rules  RuleSource
	now    func() time.Time
	logger zerolog.Logger
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a tracker.
func NewTracker(st store.Store, rules RuleSource, logger zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store:  st,
		rules:  rules,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("component", "growth").Logger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Locate maps whole days since planting onto ordered stage rules. It returns
// the stage whose cumulative window contains days and the 1-based day within
// it. Past the last rule the stage is harvest: a crop whose last rule is
// harvest stays on that rule's final day, otherwise the day counts from the
// end of the cycle.
func Locate(rules []model.GrowthStageRule, days int) (model.Stage, int) {
	if days < 0 {
		days = 0
	}
	lower := 0
	for _, r := range rules {
		upper := lower + r.StageDays
		if days < upper {
			return r.Stage, days - lower + 1
		}
		lower = upper
	}
	if n := len(rules); n > 0 && rules[n-1].Stage == model.StageHarvest {
		return model.StageHarvest, max(rules[n-1].StageDays, 1)
	}
	return model.StageHarvest, days - lower + 1
}

// DaysSince returns the number of whole days between from and now, floored.
func DaysSince(from, now time.Time) int {
	return int(math.Floor(now.Sub(from).Hours() / 24))
}

// UpdateGrowthStage recomputes and persists the stage of one planting record.
// It returns false without touching the record when the record, its planting
// date or its crop's stage rules are missing.
func (t *Tracker) UpdateGrowthStage(ctx context.Context, plantingID int64) (bool, error) {
	rec, err := t.store.GetPlanting(ctx, plantingID)
	if errors.Is(err, model.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	determined, _, err := t.advance(ctx, rec)
	return determined, err
}

// AdvanceAll updates every growing planting record. A record that fails is
// logged and skipped.
func (t *Tracker) AdvanceAll(ctx context.Context) (updated, total int, err error) {
	records, err := t.store.GrowingPlantings(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	for i := range records {
		if err := ctx.Err(); err != nil {
			return updated, total, err
		}
		total++
		_, changed, err := t.advance(ctx, &records[i])
		if err != nil {
			t.logger.Error().Err(err).Int64("planting_id", records[i].ID).Msg("failed to update growth stage")
			continue
		}
		if changed {
			updated++
		}
	}
	t.logger.Info().Int("updated", updated).Int("total", total).Msg("growth stages advanced")
	return updated, total, nil
}

func (t *Tracker) advance(ctx context.Context, rec *model.PlantingRecord) (determined, changed bool, err error) {
	if rec.PlantingDate == nil {
		return false, false, nil
	}
	rules, err := t.rules.StageRules(ctx, rec.CropID)
	if errors.Is(err, model.ErrNotFound) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	if len(rules) == 0 {
		return false, false, nil
	}

	stage, day := Locate(rules, DaysSince(*rec.PlantingDate, t.now()))
	if stage == rec.CurrentStage && day == rec.CurrentStageDay {
		return true, false, nil
	}
	if err := t.store.UpdatePlantingStage(ctx, rec.ID, stage, day); err != nil {
		return false, false, err
	}
	if stage != rec.CurrentStage {
		metrics.StageTransitionsTotal.WithLabelValues(string(stage)).Inc()
		t.logger.Debug().Int64("planting_id", rec.ID).
			Str("from", string(rec.CurrentStage)).Str("to", string(stage)).
			Msg("planting changed stage")
	}
	rec.CurrentStage, rec.CurrentStageDay = stage, day
	return true, true, nil
}
