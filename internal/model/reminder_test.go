package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminder_PayloadFollowsType(t *testing.T) {
	r := Reminder{ReminderType: ReminderWatering}
	require.NoError(t, r.SetPayload(&WateringPayload{
		TaskContext:  TaskContext{CropName: "Tomato", GrowthStage: StageSeedling, FrequencyDays: 2},
		AmountLiters: 0.5,
	}))
	assert.JSONEq(t, `{"crop_name":"Tomato","growth_stage":"seedling","frequency":2,"watering_amount":0.5}`, string(r.ExtraData))

	p, err := r.Payload()
	require.NoError(t, err)
	w, ok := p.(*WateringPayload)
	require.True(t, ok, "expected a watering payload, got %T", p)
	assert.Equal(t, 0.5, w.AmountLiters)
	assert.Equal(t, StageSeedling, w.GrowthStage)
}

func TestReminder_SetPayloadRejectsMismatchedVariant(t *testing.T) {
	r := Reminder{ReminderType: ReminderHarvest}
	err := r.SetPayload(&PestCheckPayload{CommonPests: []string{"aphids"}})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, r.ExtraData)
}

func TestReminder_PayloadEmpty(t *testing.T) {
	r := Reminder{ReminderType: ReminderCustom}
	p, err := r.Payload()
	assert.NoError(t, err)
	assert.Nil(t, p)

	r.ExtraData = []byte(`{"note":"x"}`)
	_, err = r.Payload()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReminder_EnvironmentAlertPayload(t *testing.T) {
	at := time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)
	r := Reminder{ReminderType: ReminderEnvironmentAlert}
	require.NoError(t, r.SetPayload(&EnvironmentAlertPayload{
		SensorID: 7, SensorType: MetricSoilMoisture, Value: 10, Unit: "%",
		AbnormalReason: "soil moisture too low (below 20)", ReadingTime: at,
	}))

	p, err := r.Payload()
	require.NoError(t, err)
	alert := p.(*EnvironmentAlertPayload)
	assert.Equal(t, MetricSoilMoisture, alert.SensorType)
	assert.True(t, at.Equal(alert.ReadingTime))
}

func TestGrowthStageRule_FrequencyFor(t *testing.T) {
	two, zero := 2, 0
	rule := GrowthStageRule{WateringFrequency: &two, FertilizingFrequency: &zero}

	f, ok := rule.FrequencyFor(ReminderWatering)
	assert.True(t, ok)
	assert.Equal(t, 2, f)

	_, ok = rule.FrequencyFor(ReminderFertilizing)
	assert.False(t, ok, "zero frequency means the task is off")
	_, ok = rule.FrequencyFor(ReminderWeeding)
	assert.False(t, ok)
	_, ok = rule.FrequencyFor(ReminderHarvest)
	assert.False(t, ok)
}

func TestBand_Contains(t *testing.T) {
	b := Band{Min: 20, Max: 80}
	assert.True(t, b.Contains(20))
	assert.True(t, b.Contains(80))
	assert.False(t, b.Contains(19.99))
	assert.False(t, b.Contains(80.01))
}
