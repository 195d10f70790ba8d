package model

import "time"

// PlantingStatus is the lifecycle state of a planting record.
type PlantingStatus string

const (
	PlantingGrowing   PlantingStatus = "growing"
	PlantingHarvested PlantingStatus = "harvested"
	PlantingFailed    PlantingStatus = "failed"
)

// PlantingRecord is one tenant's instance of growing a crop in a plot.
// Records are created and terminated by the tenancy service; only the
// stage fields are written here.
type PlantingRecord struct {
	ID                  int64          `gorm:"primaryKey" json:"id"`
	GardenID            int64          `gorm:"index;not null" json:"garden_id"`
	CropID              int64          `gorm:"index;not null" json:"crop_id"`
	UserID              int64          `gorm:"index;not null" json:"user_id"`
	PlantingDate        *time.Time     `json:"planting_date"`
	ExpectedHarvestDate *time.Time     `json:"expected_harvest_date"`
	ActualHarvestDate   *time.Time     `json:"actual_harvest_date,omitempty"`
	CurrentStage        Stage          `gorm:"size:20" json:"current_stage"`
	CurrentStageDay     int            `gorm:"default:1" json:"current_stage_day"`
	Quantity            int            `json:"quantity"`
	Area                float64        `json:"area"`
	Status              PlantingStatus `gorm:"size:20;index;default:growing" json:"status"`
	Notes               string         `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}
