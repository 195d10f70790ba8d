package model

import "time"

// Payload is the typed detail attached to a reminder. Each variant belongs
// to exactly one ReminderType.
type Payload interface {
	Type() ReminderType
}

// TaskContext is shared by the stage-driven task payloads.
type TaskContext struct {
	CropName      string `json:"crop_name"`
	GrowthStage   Stage  `json:"growth_stage"`
	FrequencyDays int    `json:"frequency"`
}

type WateringPayload struct {
	TaskContext
	AmountLiters float64 `json:"watering_amount"`
}

func (*WateringPayload) Type() ReminderType { return ReminderWatering }

type FertilizingPayload struct {
	TaskContext
	FertilizerType string `json:"fertilizer_type"`
}

func (*FertilizingPayload) Type() ReminderType { return ReminderFertilizing }

type WeedingPayload struct {
	TaskContext
}

func (*WeedingPayload) Type() ReminderType { return ReminderWeeding }

type PestCheckPayload struct {
	TaskContext
	CommonPests []string `json:"common_pests"`
}

func (*PestCheckPayload) Type() ReminderType { return ReminderPestCheck }

// HarvestPayload carries the countdown at generation time.
type HarvestPayload struct {
	CropName            string    `json:"crop_name"`
	ExpectedHarvestDate time.Time `json:"expected_harvest_date"`
	DaysUntilHarvest    int       `json:"days_until_harvest"`
}

func (*HarvestPayload) Type() ReminderType { return ReminderHarvest }

// EnvironmentAlertPayload is a snapshot of the abnormal reading.
type EnvironmentAlertPayload struct {
	CropName       string    `json:"crop_name"`
	SensorID       int64     `json:"sensor_id"`
	SensorType     Metric    `json:"sensor_type"`
	Value          float64   `json:"value"`
	Unit           string    `json:"unit"`
	AbnormalReason string    `json:"abnormal_reason"`
	ReadingTime    time.Time `json:"reading_time"`
}

func (*EnvironmentAlertPayload) Type() ReminderType { return ReminderEnvironmentAlert }
