package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockRe = regexp.MustCompile(`^\s*(\d{1,2})\s*[:：]\s*(\d{2})\s*$`)

// Clock is a wall-clock time of day used by daily schedules.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On returns the instant at this clock time on the calendar day of t, in loc.
func (c Clock) On(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), c.Hour, c.Minute, 0, 0, loc)
}

// ParseClock parses "HH:MM" (a full-width colon is tolerated).
func ParseClock(raw string) (Clock, error) {
	m := clockRe.FindStringSubmatch(raw)
	if m == nil {
		return Clock{}, fmt.Errorf("unable to parse clock time: %q", raw)
	}
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return Clock{}, fmt.Errorf("unable to parse hour in %q: %w", raw, err)
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil {
		return Clock{}, fmt.Errorf("unable to parse minute in %q: %w", raw, err)
	}
	if hour > 23 || minute > 59 {
		return Clock{}, fmt.Errorf("clock time out of range: %q", strings.TrimSpace(raw))
	}
	return Clock{Hour: hour, Minute: minute}, nil
}
