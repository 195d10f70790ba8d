package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"garden-care-backend/internal/parse"
)

func TestEvery(t *testing.T) {
	start := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(5*time.Minute), Every(5*time.Minute).Next(start))
}

func TestDailyAt(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	reminders := DailyAt(time.UTC,
		parse.Clock{Hour: 6}, parse.Clock{Hour: 12}, parse.Clock{Hour: 18})

	testCases := []struct {
		name     string
		schedule Schedule
		from     time.Time
		expected time.Time
	}{
		{
			name:     "Before the first slot",
			schedule: reminders,
			from:     time.Date(2024, 6, 15, 5, 59, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 15, 6, 0, 0, 0, time.UTC),
		},
		{
			name:     "Exactly on a slot moves to the next",
			schedule: reminders,
			from:     time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "After the last slot wraps to tomorrow",
			schedule: reminders,
			from:     time.Date(2024, 6, 15, 19, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 16, 6, 0, 0, 0, time.UTC),
		},
		{
			name:     "Midnight in another zone",
			schedule: DailyAt(shanghai, parse.Clock{}),
			from:     time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 6, 15, 16, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.expected.Equal(tc.schedule.Next(tc.from)), "got %s", tc.schedule.Next(tc.from))
		})
	}
}
