package model

import (
	"time"

	"gorm.io/datatypes"
)

// Stage is a growth stage tag. Stages are biologically ordered.
type Stage string

const (
	StageSeed      Stage = "seed"
	StageSeedling  Stage = "seedling"
	StageGrowth    Stage = "growth"
	StageFlowering Stage = "flowering"
	StageFruiting  Stage = "fruiting"
	StageHarvest   Stage = "harvest"
)

// Stages lists every stage in biological order.
var Stages = []Stage{StageSeed, StageSeedling, StageGrowth, StageFlowering, StageFruiting, StageHarvest}

// Valid reports whether s is a known stage tag.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Order returns the biological position of the stage, or -1.
func (s Stage) Order() int {
	for i, known := range Stages {
		if s == known {
			return i
		}
	}
	return -1
}

// CropType classifies a crop.
type CropType string

const (
	CropTypeVegetable CropType = "vegetable"
	CropTypeFruit     CropType = "fruit"
	CropTypeHerb      CropType = "herb"
	CropTypeGrain     CropType = "grain"
)

// Band is a tolerance range for one environment metric.
type Band struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Optimal float64 `json:"optimal"`
}

// Contains reports whether v lies within [Min, Max].
func (b Band) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// EnvironmentRequirements holds the per-metric tolerance bands of a crop.
// LightHours is daily sun exposure and is not compared against lux readings.
type EnvironmentRequirements struct {
	Temperature  *Band `json:"temperature,omitempty"`
	Humidity     *Band `json:"humidity,omitempty"`
	SoilMoisture *Band `json:"soil_moisture,omitempty"`
	SoilPH       *Band `json:"soil_ph,omitempty"`
	Light        *Band `json:"light,omitempty"`
	LightHours   *Band `json:"light_hours,omitempty"`
}

// BandFor returns the crop band for a sensor metric, or nil.
func (r EnvironmentRequirements) BandFor(m Metric) *Band {
	switch m {
	case MetricTemperature:
		return r.Temperature
	case MetricHumidity:
		return r.Humidity
	case MetricSoilMoisture:
		return r.SoilMoisture
	case MetricSoilPH:
		return r.SoilPH
	case MetricLight:
		return r.Light
	}
	return nil
}

// Empty reports whether no band is defined.
func (r EnvironmentRequirements) Empty() bool {
	return r.Temperature == nil && r.Humidity == nil && r.SoilMoisture == nil &&
		r.SoilPH == nil && r.Light == nil && r.LightHours == nil
}

// Crop is an immutable catalog row.
type Crop struct {
	ID                      int64                                      `gorm:"primaryKey" json:"id"`
	Name                    string                                     `gorm:"uniqueIndex;size:100;not null" json:"name"`
	ScientificName          string                                     `gorm:"size:200" json:"scientific_name"`
	Type                    CropType                                   `gorm:"size:20;not null" json:"type"`
	TotalGrowthDays         int                                        `json:"total_growth_days"`
	EnvironmentRequirements datatypes.JSONType[EnvironmentRequirements] `json:"environment_requirements"`
	Difficulty              int                                        `gorm:"default:3" json:"difficulty"`
	CommonPests             datatypes.JSONSlice[string]                `json:"common_pests"`
	Description             string                                     `gorm:"size:500" json:"description"`
	PlantingTips            string                                     `gorm:"size:1000" json:"planting_tips"`
	CreatedAt               time.Time                                  `json:"-"`
	UpdatedAt               time.Time                                  `json:"-"`

	// Associations
	Stages []GrowthStageRule `gorm:"foreignKey:CropID" json:"stages,omitempty"`
}

// Requirements returns the decoded tolerance bands.
func (c *Crop) Requirements() EnvironmentRequirements {
	return c.EnvironmentRequirements.Data()
}

// StageTask is a stage-specific chore outside the four tracked task kinds.
type StageTask struct {
	Task          string `json:"task"`
	FrequencyDays int    `json:"frequency"`
	Description   string `json:"description"`
	Once          bool   `json:"once,omitempty"`
}

// GrowthStageRule is one stage of a crop's ordered life cycle.
// Nil frequencies mean the task is not performed during the stage.
type GrowthStageRule struct {
	ID                   int64                          `gorm:"primaryKey" json:"id"`
	CropID               int64                          `gorm:"not null;uniqueIndex:idx_stage_crop_seq" json:"crop_id"`
	Sequence             int                            `gorm:"not null;uniqueIndex:idx_stage_crop_seq" json:"sequence"`
	Stage                Stage                          `gorm:"size:20;not null" json:"stage"`
	StageDays            int                            `gorm:"not null" json:"stage_days"`
	WateringFrequency    *int                           `json:"watering_frequency,omitempty"`
	WateringAmount       *float64                       `json:"watering_amount,omitempty"`
	FertilizingFrequency *int                           `json:"fertilizing_frequency,omitempty"`
	FertilizerType       string                         `gorm:"size:100" json:"fertilizer_type,omitempty"`
	WeedingFrequency     *int                           `json:"weeding_frequency,omitempty"`
	PestCheckFrequency   *int                           `json:"pest_check_frequency,omitempty"`
	OtherTasks           datatypes.JSONSlice[StageTask] `json:"other_tasks,omitempty"`
	StageTips            string                         `gorm:"size:500" json:"stage_tips,omitempty"`
	CreatedAt            time.Time                      `json:"-"`
	UpdatedAt            time.Time                      `json:"-"`
}

// FrequencyFor returns the rule's cadence in days for a task reminder type.
func (r *GrowthStageRule) FrequencyFor(t ReminderType) (int, bool) {
	var f *int
	switch t {
	case ReminderWatering:
		f = r.WateringFrequency
	case ReminderFertilizing:
		f = r.FertilizingFrequency
	case ReminderWeeding:
		f = r.WeedingFrequency
	case ReminderPestCheck:
		f = r.PestCheckFrequency
	}
	if f == nil || *f <= 0 {
		return 0, false
	}
	return *f, true
}
