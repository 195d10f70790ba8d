// Package environment ingests and simulates sensor readings and classifies
// them against the tolerance bands of the crops growing in a garden.
package environment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"garden-care-backend/internal/metrics"
	"garden-care-backend/internal/model"
	"garden-care-backend/internal/store"
)

const (
	defaultReadingInterval = 300

	MinHistoryDays     = 1
	MaxHistoryDays     = 30
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 120
	MinEventHours      = 1
	MaxEventHours      = 24
	MinLookbackHours   = 1
	MaxLookbackHours   = 168
)

// CropLookup resolves catalog crops.
type CropLookup interface {
	Crop(ctx context.Context, id int64) (*model.Crop, error)
}

// SensorStatus is the latest state of one sensor.
type SensorStatus struct {
	SensorID        int64        `json:"id"`
	SensorType      model.Metric `json:"sensor_type"`
	CurrentValue    float64      `json:"current_value"`
	Unit            string       `json:"unit"`
	IsAbnormal      bool         `json:"is_abnormal"`
	AbnormalReason  string       `json:"abnormal_reason,omitempty"`
	LastReadingTime time.Time    `json:"last_reading_time"`
}

// Status is a garden's current environment.
type Status struct {
	GardenID   int64          `json:"garden_id"`
	Sensors    []SensorStatus `json:"sensors"`
	LastUpdate *time.Time     `json:"last_update"`
}

// HistorySummary describes a backfill.
type HistorySummary struct {
	GardenID      int64     `json:"garden_id"`
	TotalReadings int       `json:"total_readings"`
	Sensors       int       `json:"sensors"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
}

// AffectedSensor is one reading forced by a weather event.
type AffectedSensor struct {
	SensorType model.Metric `json:"sensor_type"`
	Value      float64      `json:"value"`
	IsAbnormal bool         `json:"is_abnormal"`
}

// WeatherEventResult describes an injected weather event.
type WeatherEventResult struct {
	GardenID      int64              `json:"garden_id"`
	Event         model.WeatherEvent `json:"event_type"`
	DurationHours int                `json:"duration_hours"`
	Affected      []AffectedSensor   `json:"affected_sensors"`
}

// RefreshResult counts the gardens touched by RefreshAll.
type RefreshResult struct {
	Gardens int `json:"gardens"`
	Failed  int `json:"failed"`
}

// Monitor owns sensors and readings.
type Monitor struct {
	store  store.Store
	crops  CropLookup
	sim    *Simulator
	now    func() time.Time
	logger zerolog.Logger
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// NewMonitor creates a monitor.
func NewMonitor(st store.Store, crops CropLookup, sim *Simulator, logger zerolog.Logger, opts ...Option) *Monitor {
	m := &Monitor{
		store:  st,
		crops:  crops,
		sim:    sim,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("component", "environment").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// gardenCrops returns one crop per growing planting of the garden, nil for
// plantings whose crop is unknown.
func (m *Monitor) gardenCrops(ctx context.Context, gardenID int64) ([]*model.Crop, error) {
	plantings, err := m.store.GrowingPlantingsInGarden(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	crops := make([]*model.Crop, 0, len(plantings))
	for _, p := range plantings {
		crop, err := m.crops.Crop(ctx, p.CropID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		crops = append(crops, crop)
	}
	return crops, nil
}

func newReading(sensor model.Sensor, value float64, unit string, at time.Time, crops []*model.Crop) model.Reading {
	if unit == "" {
		unit = sensor.SensorType.Unit()
	}
	abnormal, reason := Classify(sensor.SensorType, value, crops)
	return model.Reading{
		SensorID:       sensor.ID,
		Value:          value,
		Unit:           unit,
		IsAbnormal:     abnormal,
		AbnormalReason: reason,
		ReadingTime:    at,
	}
}

func (m *Monitor) save(ctx context.Context, sensors map[int64]model.Metric, readings []model.Reading) error {
	if err := m.store.AddReadings(ctx, readings); err != nil {
		return err
	}
	for _, r := range readings {
		metrics.ReadingsRecordedTotal.WithLabelValues(string(sensors[r.SensorID]), strconv.FormatBool(r.IsAbnormal)).Inc()
	}
	return nil
}

// RecordReading classifies and stores a reading for an existing sensor.
// An empty unit defaults to the sensor type's unit.
func (m *Monitor) RecordReading(ctx context.Context, sensorID int64, value float64, unit string) (*model.Reading, error) {
	sensor, err := m.store.GetSensor(ctx, sensorID)
	if err != nil {
		return nil, err
	}
	crops, err := m.gardenCrops(ctx, sensor.GardenID)
	if err != nil {
		return nil, err
	}

	readings := []model.Reading{newReading(*sensor, value, unit, m.now(), crops)}
	if err := m.save(ctx, map[int64]model.Metric{sensor.ID: sensor.SensorType}, readings); err != nil {
		return nil, err
	}
	return &readings[0], nil
}

// EnsureSensors provisions the five standard sensors of a garden.
func (m *Monitor) EnsureSensors(ctx context.Context, gardenID int64) ([]model.Sensor, error) {
	sensors := make([]model.Sensor, 0, len(model.Metrics))
	for _, metric := range model.Metrics {
		sensors = append(sensors, model.Sensor{
			SensorType:             metric,
			DeviceID:               fmt.Sprintf("%s-%d-%s", metric, gardenID, uuid.NewString()),
			Active:                 true,
			ReadingIntervalSeconds: defaultReadingInterval,
		})
	}
	return m.store.EnsureSensors(ctx, gardenID, sensors)
}

// CurrentStatus reports the latest reading of every active sensor. With
// autoSimulate, a garden without sensors is provisioned and simulated, and a
// sensor without readings gets one realistic reading.
func (m *Monitor) CurrentStatus(ctx context.Context, gardenID int64, autoSimulate bool) (*Status, error) {
	sensors, err := m.store.ActiveSensors(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	if len(sensors) == 0 && autoSimulate {
		if _, err := m.SimulateReadings(ctx, gardenID, true); err != nil {
			return nil, err
		}
		if sensors, err = m.store.ActiveSensors(ctx, gardenID); err != nil {
			return nil, err
		}
	}

	status := &Status{GardenID: gardenID, Sensors: []SensorStatus{}}
	for _, sensor := range sensors {
		latest, err := m.store.LatestReading(ctx, sensor.ID)
		if errors.Is(err, model.ErrNotFound) {
			if !autoSimulate {
				continue
			}
			latest, err = m.RecordReading(ctx, sensor.ID, m.sim.Realistic(sensor.SensorType, m.now()), "")
		}
		if err != nil {
			return nil, err
		}

		status.Sensors = append(status.Sensors, SensorStatus{
			SensorID:        sensor.ID,
			SensorType:      sensor.SensorType,
			CurrentValue:    latest.Value,
			Unit:            latest.Unit,
			IsAbnormal:      latest.IsAbnormal,
			AbnormalReason:  latest.AbnormalReason,
			LastReadingTime: latest.ReadingTime,
		})
		if status.LastUpdate == nil || latest.ReadingTime.After(*status.LastUpdate) {
			at := latest.ReadingTime
			status.LastUpdate = &at
		}
	}
	return status, nil
}

// SimulateReadings provisions the garden's sensors and writes one fresh
// reading for each, realistic or flat random.
func (m *Monitor) SimulateReadings(ctx context.Context, gardenID int64, realistic bool) (map[model.Metric]*model.Reading, error) {
	sensors, err := m.EnsureSensors(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	crops, err := m.gardenCrops(ctx, gardenID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	types := make(map[int64]model.Metric, len(sensors))
	readings := make([]model.Reading, 0, len(sensors))
	for _, sensor := range sensors {
		var value float64
		if realistic {
			value = m.sim.Realistic(sensor.SensorType, now)
		} else {
			value = m.sim.Random(sensor.SensorType)
		}
		types[sensor.ID] = sensor.SensorType
		readings = append(readings, newReading(sensor, value, "", now, crops))
	}
	if err := m.save(ctx, types, readings); err != nil {
		return nil, err
	}

	out := make(map[model.Metric]*model.Reading, len(readings))
	for i := range readings {
		out[types[readings[i].SensorID]] = &readings[i]
	}
	return out, nil
}

// GenerateHistory backfills realistic readings every intervalMinutes over
// the last days, classifying each point.
func (m *Monitor) GenerateHistory(ctx context.Context, gardenID int64, days, intervalMinutes int) (*HistorySummary, error) {
	if days < MinHistoryDays || days > MaxHistoryDays {
		return nil, fmt.Errorf("days must be between %d and %d, got %d: %w", MinHistoryDays, MaxHistoryDays, days, model.ErrValidation)
	}
	if intervalMinutes < MinIntervalMinutes || intervalMinutes > MaxIntervalMinutes {
		return nil, fmt.Errorf("interval must be between %d and %d minutes, got %d: %w", MinIntervalMinutes, MaxIntervalMinutes, intervalMinutes, model.ErrValidation)
	}

	sensors, err := m.EnsureSensors(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	crops, err := m.gardenCrops(ctx, gardenID)
	if err != nil {
		return nil, err
	}

	end := m.now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)
	step := time.Duration(intervalMinutes) * time.Minute

	types := make(map[int64]model.Metric, len(sensors))
	for _, sensor := range sensors {
		types[sensor.ID] = sensor.SensorType
	}
	var readings []model.Reading
	for at := start; !at.After(end); at = at.Add(step) {
		for _, sensor := range sensors {
			readings = append(readings, newReading(sensor, m.sim.Realistic(sensor.SensorType, at), "", at, crops))
		}
	}
	if err := m.save(ctx, types, readings); err != nil {
		return nil, err
	}

	m.logger.Info().Int64("garden_id", gardenID).Int("readings", len(readings)).Int("days", days).Msg("environment history generated")
	return &HistorySummary{
		GardenID:      gardenID,
		TotalReadings: len(readings),
		Sensors:       len(sensors),
		Start:         start,
		End:           end,
	}, nil
}

// CreateWeatherEvent writes one reading per metric the event affects.
func (m *Monitor) CreateWeatherEvent(ctx context.Context, gardenID int64, event model.WeatherEvent, durationHours int) (*WeatherEventResult, error) {
	if !event.Valid() {
		return nil, fmt.Errorf("unknown weather event %q: %w", event, model.ErrValidation)
	}
	if durationHours < MinEventHours || durationHours > MaxEventHours {
		return nil, fmt.Errorf("duration must be between %d and %d hours, got %d: %w", MinEventHours, MaxEventHours, durationHours, model.ErrValidation)
	}

	sensors, err := m.EnsureSensors(ctx, gardenID)
	if err != nil {
		return nil, err
	}
	crops, err := m.gardenCrops(ctx, gardenID)
	if err != nil {
		return nil, err
	}

	now := m.now()
	types := make(map[int64]model.Metric, len(sensors))
	var readings []model.Reading
	for _, sensor := range sensors {
		value, ok := m.sim.Event(event, sensor.SensorType)
		if !ok {
			continue
		}
		types[sensor.ID] = sensor.SensorType
		readings = append(readings, newReading(sensor, value, "", now, crops))
	}
	if err := m.save(ctx, types, readings); err != nil {
		return nil, err
	}

	res := &WeatherEventResult{GardenID: gardenID, Event: event, DurationHours: durationHours, Affected: []AffectedSensor{}}
	for _, r := range readings {
		res.Affected = append(res.Affected, AffectedSensor{SensorType: types[r.SensorID], Value: r.Value, IsAbnormal: r.IsAbnormal})
	}
	m.logger.Info().Int64("garden_id", gardenID).Str("event", string(event)).Int("affected", len(res.Affected)).Msg("weather event injected")
	return res, nil
}

// History returns the readings of the last hours per active sensor, oldest
// first, optionally restricted to one metric.
func (m *Monitor) History(ctx context.Context, gardenID int64, metric *model.Metric, hours int) (map[model.Metric][]model.Reading, error) {
	if hours < MinLookbackHours || hours > MaxLookbackHours {
		return nil, fmt.Errorf("hours must be between %d and %d, got %d: %w", MinLookbackHours, MaxLookbackHours, hours, model.ErrValidation)
	}
	sensors, err := m.store.ActiveSensors(ctx, gardenID)
	if err != nil {
		return nil, err
	}

	types := make(map[int64]model.Metric, len(sensors))
	ids := make([]int64, 0, len(sensors))
	out := make(map[model.Metric][]model.Reading)
	for _, s := range sensors {
		if metric != nil && s.SensorType != *metric {
			continue
		}
		types[s.ID] = s.SensorType
		ids = append(ids, s.ID)
		out[s.SensorType] = []model.Reading{}
	}

	readings, err := m.store.ReadingsSince(ctx, ids, m.now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return nil, err
	}
	for _, r := range readings {
		t := types[r.SensorID]
		out[t] = append(out[t], r)
	}
	return out, nil
}

// RefreshAll simulates a realistic reading set for every garden. A garden
// that fails is logged and skipped.
func (m *Monitor) RefreshAll(ctx context.Context) (RefreshResult, error) {
	gardens, err := m.store.ListGardens(ctx)
	if err != nil {
		return RefreshResult{}, err
	}
	var res RefreshResult
	for _, g := range gardens {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Gardens++
		if _, err := m.SimulateReadings(ctx, g.ID, true); err != nil {
			res.Failed++
			m.logger.Error().Err(err).Int64("garden_id", g.ID).Str("garden", g.Name).Msg("failed to refresh garden sensors")
		}
	}
	m.logger.Info().Int("gardens", res.Gardens).Int("failed", res.Failed).Msg("environment refreshed")
	return res, nil
}
