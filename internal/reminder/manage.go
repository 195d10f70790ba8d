package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
)

// Get returns a reminder owned by userID. Reminders of other users read as
// model.ErrNotFound.
func (g *Generator) Get(ctx context.Context, id, userID int64) (*model.Reminder, error) {
	r, err := g.store.GetReminder(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != userID {
		return nil, fmt.Errorf("reminder %d: %w", id, model.ErrNotFound)
	}
	return r, nil
}

// Complete marks a reminder owned by userID as done. It reports false when
// the reminder does not exist for that user.
func (g *Generator) Complete(ctx context.Context, id, userID int64) (bool, error) {
	ok, err := g.store.SetReminderStatus(ctx, id, userID, model.ReminderCompleted, g.now())
	if err != nil {
		return false, err
	}
	if ok {
		g.logger.Debug().Int64("reminder_id", id).Int64("user_id", userID).Msg("reminder completed")
	}
	return ok, nil
}

// Ignore dismisses a reminder owned by userID.
func (g *Generator) Ignore(ctx context.Context, id, userID int64) (bool, error) {
	return g.store.SetReminderStatus(ctx, id, userID, model.ReminderIgnored, g.now())
}

// UpdateGrowthStage recomputes a planting's stage.
func (g *Generator) UpdateGrowthStage(ctx context.Context, plantingID int64) (bool, error) {
	return g.tracker.UpdateGrowthStage(ctx, plantingID)
}

// List returns a user's reminders, highest priority first. A zero limit
// selects DefaultListLimit.
func (g *Generator) List(ctx context.Context, userID int64, filter store.ReminderFilter) ([]model.Reminder, error) {
	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit < 1 || filter.Limit > MaxListLimit {
		return nil, fmt.Errorf("limit must be between 1 and %d, got %d: %w", MaxListLimit, filter.Limit, model.ErrValidation)
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown reminder status %q: %w", *filter.Status, model.ErrValidation)
	}
	if filter.Type != nil && !filter.Type.Valid() {
		return nil, fmt.Errorf("unknown reminder type %q: %w", *filter.Type, model.ErrValidation)
	}
	return g.store.ListReminders(ctx, userID, filter)
}

// Statistics summarizes a user's reminders.
func (g *Generator) Statistics(ctx context.Context, userID int64) (*store.ReminderStats, error) {
	return g.store.ReminderStats(ctx, userID)
}

// ManualReminder is a reminder a user schedules for themselves.
type ManualReminder struct {
	UserID           int64
	GardenID         *int64
	PlantingRecordID *int64
	Type             model.ReminderType
	Title            string
	Description      string
	RemindTime       time.Time
	Priority         int
}

// CreateManual validates and stores a user-scheduled reminder. When it names
// a planting, the planting must belong to the user.
func (g *Generator) CreateManual(ctx context.Context, m ManualReminder) (*model.Reminder, error) {
	title := strings.TrimSpace(m.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", model.ErrValidation)
	}
	if m.Type == "" {
		m.Type = model.ReminderCustom
	}
	if !m.Type.Valid() {
		return nil, fmt.Errorf("unknown reminder type %q: %w", m.Type, model.ErrValidation)
	}
	if m.Priority == 0 {
		m.Priority = 3
	}
	if m.Priority < 1 || m.Priority > 5 {
		return nil, fmt.Errorf("priority must be between 1 and 5, got %d: %w", m.Priority, model.ErrValidation)
	}

	now := g.now()
	if m.RemindTime.IsZero() {
		m.RemindTime = now
	}

	gardenID := m.GardenID
	if m.PlantingRecordID != nil {
		p, err := g.store.GetPlanting(ctx, *m.PlantingRecordID)
		if err != nil {
			return nil, err
		}
		if p.UserID != m.UserID {
			return nil, fmt.Errorf("planting record %d: %w", p.ID, model.ErrNotFound)
		}
		if gardenID == nil {
			gardenID = &p.GardenID
		}
	}

	r := &model.Reminder{
		UserID:           m.UserID,
		GardenID:         gardenID,
		PlantingRecordID: m.PlantingRecordID,
		ReminderType:     m.Type,
		Title:            title,
		Description:      m.Description,
		RemindTime:       m.RemindTime.UTC(),
		Priority:         m.Priority,
		Source:           model.SourceManual,
		Status:           model.ReminderPending,
		CreatedAt:        now,
	}
	if err := g.store.CreateReminder(ctx, r); err != nil {
		return nil, err
	}
	metrics.RemindersCreatedTotal.WithLabelValues(string(r.ReminderType), string(r.Source)).Inc()
	return r, nil
}
