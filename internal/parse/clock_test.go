package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  Clock
		expectErr bool
	}{
		{name: "Midnight", raw: "00:00", expected: Clock{Hour: 0, Minute: 0}},
		{name: "Single digit hour", raw: "6:00", expected: Clock{Hour: 6, Minute: 0}},
		{name: "Surrounding spaces", raw: "  18 : 30 ", expected: Clock{Hour: 18, Minute: 30}},
		{name: "Full-width colon", raw: "23：00", expected: Clock{Hour: 23, Minute: 0}},
		{name: "Hour out of range", raw: "24:00", expectErr: true},
		{name: "Minute out of range", raw: "12:60", expectErr: true},
		{name: "Missing minutes", raw: "12", expectErr: true},
		{name: "Empty string", raw: "", expectErr: true},
		{name: "Garbage", raw: "noon", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestClock_On(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 2024-05-01 20:00 UTC is already 2024-05-02 in UTC+8.
	base := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

	got := Clock{Hour: 6, Minute: 15}.On(base, loc)
	assert.Equal(t, time.Date(2024, 5, 2, 6, 15, 0, 0, loc), got)

	got = Clock{Hour: 6, Minute: 15}.On(base, nil)
	assert.Equal(t, time.Date(2024, 5, 1, 6, 15, 0, 0, time.UTC), got)

	assert.Equal(t, "06:05", Clock{Hour: 6, Minute: 5}.String())
}
