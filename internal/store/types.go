package store

import (
	"time"

	"garden-care-backend/internal/model"
)

// ReminderKey selects pending reminders for deduplication. Nil ids are not
// filtered on.
type ReminderKey struct {
	UserID           int64
	GardenID         *int64
	PlantingRecordID *int64
	Type             model.ReminderType
}

// ReminderFilter narrows a reminder listing.
type ReminderFilter struct {
	Status           *model.ReminderStatus
	Type             *model.ReminderType
	PlantingRecordID *int64
	Limit            int
}

// ReminderStats summarizes one user's reminders.
type ReminderStats struct {
	Total         int64                        `json:"total"`
	Pending       int64                        `json:"pending"`
	Completed     int64                        `json:"completed"`
	Ignored       int64                        `json:"ignored"`
	PendingByType map[model.ReminderType]int64 `json:"pending_by_type"`
}

// DailySummary holds the counters of the nightly summary job.
type DailySummary struct {
	Day              time.Time `json:"day"`
	RemindersCreated int64     `json:"reminders_created"`
	RemindersDone    int64     `json:"reminders_completed"`
	RemindersPending int64     `json:"reminders_pending"`
	ActivePlantings  int64     `json:"active_plantings"`
	ReadingsRecorded int64     `json:"readings_recorded"`
	AbnormalReadings int64     `json:"abnormal_readings"`
}
