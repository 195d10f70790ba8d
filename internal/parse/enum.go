package parse

import (
	"fmt"
	"strings"

	"garden-care-backend/internal/model"
)

var tagReplacer = strings.NewReplacer("-", "_", " ", "_")

// normalizeTag lowercases a raw enum value and folds "-" and " " into "_",
// so "Heat-Wave" and "heat wave" both read as "heat_wave".
func normalizeTag(raw string) string {
	return tagReplacer.Replace(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseMetric parses a sensor metric name.
func ParseMetric(raw string) (model.Metric, error) {
	m := model.Metric(normalizeTag(raw))
	if !m.Valid() {
		return "", fmt.Errorf("unknown sensor type %q: %w", raw, model.ErrValidation)
	}
	return m, nil
}

// ParseStage parses a growth stage tag.
func ParseStage(raw string) (model.Stage, error) {
	s := model.Stage(normalizeTag(raw))
	if !s.Valid() {
		return "", fmt.Errorf("unknown growth stage %q: %w", raw, model.ErrValidation)
	}
	return s, nil
}

// ParseReminderType parses a reminder type.
func ParseReminderType(raw string) (model.ReminderType, error) {
	t := model.ReminderType(normalizeTag(raw))
	if !t.Valid() {
		return "", fmt.Errorf("unknown reminder type %q: %w", raw, model.ErrValidation)
	}
	return t, nil
}

// ParseReminderStatus parses a reminder status.
func ParseReminderStatus(raw string) (model.ReminderStatus, error) {
	s := model.ReminderStatus(normalizeTag(raw))
	if !s.Valid() {
		return "", fmt.Errorf("unknown reminder status %q: %w", raw, model.ErrValidation)
	}
	return s, nil
}

// ParseWeatherEvent parses a weather event type.
func ParseWeatherEvent(raw string) (model.WeatherEvent, error) {
	e := model.WeatherEvent(normalizeTag(raw))
	if !e.Valid() {
		return "", fmt.Errorf("unknown weather event %q: %w", raw, model.ErrValidation)
	}
	return e, nil
}
