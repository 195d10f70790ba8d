package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ReminderType identifies what a reminder asks the tenant to do.
type ReminderType string

const (
	ReminderWatering         ReminderType = "watering"
	ReminderFertilizing      ReminderType = "fertilizing"
	ReminderWeeding          ReminderType = "weeding"
	ReminderPestCheck        ReminderType = "pest_check"
	ReminderHarvest          ReminderType = "harvest"
	ReminderEnvironmentAlert ReminderType = "environment_alert"
	ReminderCustom           ReminderType = "custom"
)

// TaskTypes are the stage-rule driven reminder types, in evaluation order.
var TaskTypes = []ReminderType{ReminderWatering, ReminderFertilizing, ReminderWeeding, ReminderPestCheck}

// ReminderTypes lists every reminder type.
var ReminderTypes = []ReminderType{
	ReminderWatering, ReminderFertilizing, ReminderWeeding, ReminderPestCheck,
	ReminderHarvest, ReminderEnvironmentAlert, ReminderCustom,
}

// Valid reports whether t is a known reminder type.
func (t ReminderType) Valid() bool {
	for _, known := range ReminderTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ReminderStatus is the lifecycle state of a reminder.
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderCompleted ReminderStatus = "completed"
	ReminderIgnored   ReminderStatus = "ignored"
)

// Valid reports whether s is a known reminder status.
func (s ReminderStatus) Valid() bool {
	return s == ReminderPending || s == ReminderCompleted || s == ReminderIgnored
}

// ReminderSource records what produced a reminder.
type ReminderSource string

const (
	SourceRuleBased    ReminderSource = "rule_based"
	SourceIoTTriggered ReminderSource = "iot_triggered"
	SourceManual       ReminderSource = "manual"
)

// Reminder is an actionable task or alert for a tenant.
type Reminder struct {
	ID               int64          `gorm:"primaryKey" json:"id"`
	UserID           int64          `gorm:"not null;index:idx_reminder_dedup,priority:1" json:"user_id"`
	GardenID         *int64         `gorm:"index" json:"garden_id"`
	PlantingRecordID *int64         `gorm:"index:idx_reminder_dedup,priority:2" json:"planting_record_id"`
	ReminderType     ReminderType   `gorm:"size:50;not null;index:idx_reminder_dedup,priority:3" json:"reminder_type"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Description      string         `gorm:"size:1000" json:"description"`
	RemindTime       time.Time      `gorm:"not null" json:"remind_time"`
	Priority         int            `gorm:"not null;default:3" json:"priority"`
	Source           ReminderSource `gorm:"size:50" json:"source"`
	ExtraData        datatypes.JSON `json:"extra_data,omitempty"`
	Status           ReminderStatus `gorm:"size:20;not null;default:pending;index:idx_reminder_dedup,priority:4" json:"status"`
	CompletedAt      *time.Time     `json:"completed_at"`
	CreatedAt        time.Time      `gorm:"index:idx_reminder_dedup,priority:5" json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// SetPayload stores p as the reminder's extra data.
func (r *Reminder) SetPayload(p Payload) error {
	if p == nil {
		r.ExtraData = nil
		return nil
	}
	if p.Type() != r.ReminderType {
		return fmt.Errorf("payload for %q attached to %q reminder: %w", p.Type(), r.ReminderType, ErrValidation)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", r.ReminderType, err)
	}
	r.ExtraData = datatypes.JSON(raw)
	return nil
}

// Payload decodes the extra data into the variant selected by ReminderType.
// It returns nil, nil when no payload is attached.
func (r *Reminder) Payload() (Payload, error) {
	if len(r.ExtraData) == 0 || string(r.ExtraData) == "null" {
		return nil, nil
	}
	var p Payload
	switch r.ReminderType {
	case ReminderWatering:
		p = &WateringPayload{}
	case ReminderFertilizing:
		p = &FertilizingPayload{}
	case ReminderWeeding:
		p = &WeedingPayload{}
	case ReminderPestCheck:
		p = &PestCheckPayload{}
	case ReminderHarvest:
		p = &HarvestPayload{}
	case ReminderEnvironmentAlert:
		p = &EnvironmentAlertPayload{}
	default:
		return nil, fmt.Errorf("reminder type %q carries no payload: %w", r.ReminderType, ErrValidation)
	}
	if err := json.Unmarshal(r.ExtraData, p); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", r.ReminderType, err)
	}
	return p, nil
}
