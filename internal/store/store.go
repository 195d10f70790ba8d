package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"garden-care-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Transaction runs fn against a Store bound to a single database transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	SeedCrops(ctx context.Context, crops []model.Crop) (int, error)
	ListCrops(ctx context.Context) ([]model.Crop, error)
	GetCrop(ctx context.Context, id int64) (*model.Crop, error)
	StageRules(ctx context.Context, cropID int64) ([]model.GrowthStageRule, error)

	ListGardens(ctx context.Context) ([]model.Garden, error)
	GetPlanting(ctx context.Context, id int64) (*model.PlantingRecord, error)
	GrowingPlantings(ctx context.Context, userID *int64) ([]model.PlantingRecord, error)
	GrowingPlantingsInGarden(ctx context.Context, gardenID int64) ([]model.PlantingRecord, error)
	UpdatePlantingStage(ctx context.Context, id int64, stage model.Stage, day int) error

	GetSensor(ctx context.Context, id int64) (*model.Sensor, error)
	ActiveSensors(ctx context.Context, gardenID int64) ([]model.Sensor, error)
	EnsureSensors(ctx context.Context, gardenID int64, sensors []model.Sensor) ([]model.Sensor, error)
	LatestReading(ctx context.Context, sensorID int64) (*model.Reading, error)
	ReadingsSince(ctx context.Context, sensorIDs []int64, since time.Time) ([]model.Reading, error)
	AddReadings(ctx context.Context, readings []model.Reading) error

	FindPendingReminder(ctx context.Context, key ReminderKey, since time.Time) (*model.Reminder, error)
	LastCompletion(ctx context.Context, plantingID int64, t model.ReminderType) (*time.Time, error)
	CreateReminder(ctx context.Context, r *model.Reminder) error
	GetReminder(ctx context.Context, id int64) (*model.Reminder, error)
	SetReminderStatus(ctx context.Context, id, userID int64, status model.ReminderStatus, at time.Time) (bool, error)
	ListReminders(ctx context.Context, userID int64, filter ReminderFilter) ([]model.Reminder, error)
	ReminderStats(ctx context.Context, userID int64) (*ReminderStats, error)
	DailySummary(ctx context.Context, from, to time.Time) (*DailySummary, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

const readingBatchSize = 500

func notFound(err error, what string, id int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, model.ErrNotFound)
	}
	return fmt.Errorf("failed to load %s %d: %w", what, id, err)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// --- Catalog ---

// SeedCrops inserts every crop, with its stage rules, whose name is not yet
// present. It returns the number of crops created.
func (s *gormStore) SeedCrops(ctx context.Context, crops []model.Crop) (int, error) {
	created := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range crops {
			var existing model.Crop
			err := tx.Where("name = ?", crops[i].Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up crop %q: %w", crops[i].Name, err)
			}
			if err := tx.Create(&crops[i]).Error; err != nil {
				return fmt.Errorf("failed to create crop %q: %w", crops[i].Name, err)
			}
			created++
		}
		return nil
	})
	return created, err
}

func orderedStages(db *gorm.DB) *gorm.DB {
	return db.Order("sequence ASC")
}

func (s *gormStore) ListCrops(ctx context.Context) ([]model.Crop, error) {
	var crops []model.Crop
	if err := s.db.WithContext(ctx).Preload("Stages", orderedStages).Order("id ASC").Find(&crops).Error; err != nil {
		return nil, fmt.Errorf("failed to list crops: %w", err)
	}
	return crops, nil
}

func (s *gormStore) GetCrop(ctx context.Context, id int64) (*model.Crop, error) {
	var crop model.Crop
	if err := s.db.WithContext(ctx).Preload("Stages", orderedStages).First(&crop, id).Error; err != nil {
		return nil, notFound(err, "crop", id)
	}
	return &crop, nil
}

func (s *gormStore) StageRules(ctx context.Context, cropID int64) ([]model.GrowthStageRule, error) {
	var rules []model.GrowthStageRule
	if err := s.db.WithContext(ctx).Where("crop_id = ?", cropID).Order("sequence ASC").Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to load stage rules for crop %d: %w", cropID, err)
	}
	return rules, nil
}

// --- Gardens and plantings ---

func (s *gormStore) ListGardens(ctx context.Context) ([]model.Garden, error) {
	var gardens []model.Garden
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&gardens).Error; err != nil {
		return nil, fmt.Errorf("failed to list gardens: %w", err)
	}
	return gardens, nil
}

func (s *gormStore) GetPlanting(ctx context.Context, id int64) (*model.PlantingRecord, error) {
	var p model.PlantingRecord
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err, "planting record", id)
	}
	return &p, nil
}

func (s *gormStore) GrowingPlantings(ctx context.Context, userID *int64) ([]model.PlantingRecord, error) {
	q := s.db.WithContext(ctx).Where("status = ?", model.PlantingGrowing)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var records []model.PlantingRecord
	if err := q.Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list growing plantings: %w", err)
	}
	return records, nil
}

func (s *gormStore) GrowingPlantingsInGarden(ctx context.Context, gardenID int64) ([]model.PlantingRecord, error) {
	var records []model.PlantingRecord
	err := s.db.WithContext(ctx).
		Where("garden_id = ? AND status = ?", gardenID, model.PlantingGrowing).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list growing plantings of garden %d: %w", gardenID, err)
	}
	return records, nil
}

func (s *gormStore) UpdatePlantingStage(ctx context.Context, id int64, stage model.Stage, day int) error {
	res := s.db.WithContext(ctx).Model(&model.PlantingRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"current_stage": stage, "current_stage_day": day})
	if res.Error != nil {
		return fmt.Errorf("failed to update stage of planting record %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("planting record %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// --- Sensors and readings ---

func (s *gormStore) GetSensor(ctx context.Context, id int64) (*model.Sensor, error) {
	var sensor model.Sensor
	if err := s.db.WithContext(ctx).First(&sensor, id).Error; err != nil {
		return nil, notFound(err, "sensor", id)
	}
	return &sensor, nil
}

func (s *gormStore) ActiveSensors(ctx context.Context, gardenID int64) ([]model.Sensor, error) {
	var sensors []model.Sensor
	err := s.db.WithContext(ctx).
		Where("garden_id = ? AND active = ?", gardenID, true).
		Order("id ASC").
		Find(&sensors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors of garden %d: %w", gardenID, err)
	}
	return sensors, nil
}

// EnsureSensors creates the given sensors unless one of the same type already
// exists on the garden, then returns the garden's sensors of those types.
func (s *gormStore) EnsureSensors(ctx context.Context, gardenID int64, sensors []model.Sensor) ([]model.Sensor, error) {
	if len(sensors) == 0 {
		return nil, nil
	}
	types := make([]model.Metric, 0, len(sensors))
	for i := range sensors {
		sensors[i].GardenID = gardenID
		types = append(types, sensors[i].SensorType)
	}

	db := s.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "garden_id"}, {Name: "sensor_type"}},
		DoNothing: true,
	}).Create(&sensors).Error; err != nil {
		return nil, fmt.Errorf("failed to provision sensors for garden %d: %w", gardenID, err)
	}

	var out []model.Sensor
	if err := db.Where("garden_id = ? AND sensor_type IN ?", gardenID, types).Order("id ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to reload sensors of garden %d: %w", gardenID, err)
	}
	return out, nil
}

func (s *gormStore) LatestReading(ctx context.Context, sensorID int64) (*model.Reading, error) {
	var r model.Reading
	err := s.db.WithContext(ctx).
		Where("sensor_id = ?", sensorID).
		Order("reading_time DESC").Order("id DESC").
		First(&r).Error
	if err != nil {
		return nil, notFound(err, "reading of sensor", sensorID)
	}
	return &r, nil
}

func (s *gormStore) ReadingsSince(ctx context.Context, sensorIDs []int64, since time.Time) ([]model.Reading, error) {
	if len(sensorIDs) == 0 {
		return nil, nil
	}
	var readings []model.Reading
	err := s.db.WithContext(ctx).
		Where("sensor_id IN ? AND reading_time >= ?", sensorIDs, since).
		Order("reading_time ASC").Order("id ASC").
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load readings: %w", err)
	}
	return readings, nil
}

// AddReadings batch-inserts readings and advances each sensor's
// last_reading_time, all in one transaction.
func (s *gormStore) AddReadings(ctx context.Context, readings []model.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	latest := make(map[int64]time.Time)
	for _, r := range readings {
		if cur, ok := latest[r.SensorID]; !ok || r.ReadingTime.After(cur) {
			latest[r.SensorID] = r.ReadingTime
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(&readings, readingBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert %d readings: %w", len(readings), err)
		}
		for sensorID, at := range latest {
			err := tx.Model(&model.Sensor{}).
				Where("id = ? AND (last_reading_time IS NULL OR last_reading_time < ?)", sensorID, at).
				Update("last_reading_time", at).Error
			if err != nil {
				return fmt.Errorf("failed to touch sensor %d: %w", sensorID, err)
			}
		}
		return nil
	})
}

// --- Reminders ---

// FindPendingReminder returns the newest pending reminder matching key that
// was created at or after since. A zero since disables the window.
func (s *gormStore) FindPendingReminder(ctx context.Context, key ReminderKey, since time.Time) (*model.Reminder, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ? AND reminder_type = ? AND status = ?", key.UserID, key.Type, model.ReminderPending)
	if key.PlantingRecordID != nil {
		q = q.Where("planting_record_id = ?", *key.PlantingRecordID)
	}
	if key.GardenID != nil {
		q = q.Where("garden_id = ?", *key.GardenID)
	}
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}

	var r model.Reminder
	if err := q.Order("created_at DESC").Order("id DESC").First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("pending %s reminder: %w", key.Type, model.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to look up pending %s reminder: %w", key.Type, err)
	}
	return &r, nil
}

// LastCompletion returns when a task of the given type was last completed for
// the planting, or nil if it never was.
func (s *gormStore) LastCompletion(ctx context.Context, plantingID int64, t model.ReminderType) (*time.Time, error) {
	var r model.Reminder
	err := s.db.WithContext(ctx).
		Where("planting_record_id = ? AND reminder_type = ? AND status = ? AND completed_at IS NOT NULL",
			plantingID, t, model.ReminderCompleted).
		Order("completed_at DESC").
		First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up last %s completion for planting record %d: %w", t, plantingID, err)
	}
	return r.CompletedAt, nil
}

func (s *gormStore) CreateReminder(ctx context.Context, r *model.Reminder) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create %s reminder: %w", r.ReminderType, err)
	}
	return nil
}

func (s *gormStore) GetReminder(ctx context.Context, id int64) (*model.Reminder, error) {
	var r model.Reminder
	if err := s.db.WithContext(ctx).First(&r, id).Error; err != nil {
		return nil, notFound(err, "reminder", id)
	}
	return &r, nil
}

// SetReminderStatus moves a reminder owned by userID to status. It reports
// false when no such reminder exists for that user.
func (s *gormStore) SetReminderStatus(ctx context.Context, id, userID int64, status model.ReminderStatus, at time.Time) (bool, error) {
	updates := map[string]any{"status": status}
	if status == model.ReminderCompleted {
		updates["completed_at"] = at
	}
	res := s.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark reminder %d %s: %w", id, status, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *gormStore) ListReminders(ctx context.Context, userID int64, filter ReminderFilter) ([]model.Reminder, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		q = q.Where("reminder_type = ?", *filter.Type)
	}
	if filter.PlantingRecordID != nil {
		q = q.Where("planting_record_id = ?", *filter.PlantingRecordID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var reminders []model.Reminder
	if err := q.Order("priority DESC").Order("remind_time DESC").Order("id DESC").Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to list reminders of user %d: %w", userID, err)
	}
	return reminders, nil
}

type countRow struct {
	Label string
	Count int64
}

func (s *gormStore) ReminderStats(ctx context.Context, userID int64) (*ReminderStats, error) {
	db := s.db.WithContext(ctx)
	stats := &ReminderStats{PendingByType: make(map[model.ReminderType]int64)}

	var byStatus []countRow
	if err := db.Model(&model.Reminder{}).
		Select("status AS label, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count reminders by status: %w", err)
	}
	for _, row := range byStatus {
		stats.Total += row.Count
		switch model.ReminderStatus(row.Label) {
		case model.ReminderPending:
			stats.Pending = row.Count
		case model.ReminderCompleted:
			stats.Completed = row.Count
		case model.ReminderIgnored:
			stats.Ignored = row.Count
		}
	}

	var byType []countRow
	if err := db.Model(&model.Reminder{}).
		Select("reminder_type AS label, COUNT(*) AS count").
		Where("user_id = ? AND status = ?", userID, model.ReminderPending).
		Group("reminder_type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending reminders by type: %w", err)
	}
	for _, row := range byType {
		stats.PendingByType[model.ReminderType(row.Label)] = row.Count
	}
	return stats, nil
}

// DailySummary counts activity in [from, to) plus the current backlog.
func (s *gormStore) DailySummary(ctx context.Context, from, to time.Time) (*DailySummary, error) {
	db := s.db.WithContext(ctx)
	sum := &DailySummary{Day: from}

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&sum.RemindersCreated, &model.Reminder{}, "created_at >= ? AND created_at < ?", []any{from, to}},
		{&sum.RemindersDone, &model.Reminder{}, "status = ? AND completed_at >= ? AND completed_at < ?", []any{model.ReminderCompleted, from, to}},
		{&sum.RemindersPending, &model.Reminder{}, "status = ?", []any{model.ReminderPending}},
		{&sum.ActivePlantings, &model.PlantingRecord{}, "status = ?", []any{model.PlantingGrowing}},
		{&sum.ReadingsRecorded, &model.Reading{}, "reading_time >= ? AND reading_time < ?", []any{from, to}},
		{&sum.AbnormalReadings, &model.Reading{}, "is_abnormal = ? AND reading_time >= ? AND reading_time < ?", []any{true, from, to}},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.where, c.args...).Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to compute daily summary: %w", err)
		}
	}
	return sum, nil
}
