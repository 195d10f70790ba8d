package scheduler

import (
	"time"

	"garden-care-backend/internal/parse"
)

// Schedule decides when a job is next due.
type Schedule interface {
	// Next returns the first activation strictly after t.
	Next(t time.Time) time.Time
}

type every time.Duration

// Every fires at a fixed interval, measured from the previous activation.
func Every(d time.Duration) Schedule {
	return every(d)
}

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

func (e every) String() string {
	return "every " + time.Duration(e).String()
}

type daily struct {
	clocks []parse.Clock
	loc    *time.Location
}

// DailyAt fires once a day at each of the given wall-clock times in loc.
func DailyAt(loc *time.Location, clocks ...parse.Clock) Schedule {
	if loc == nil {
		loc = time.UTC
	}
	return daily{clocks: clocks, loc: loc}
}

func (d daily) Next(t time.Time) time.Time {
	var next time.Time
	for offset := 0; offset <= 1; offset++ {
		day := t.In(d.loc).AddDate(0, 0, offset)
		for _, c := range d.clocks {
			at := c.On(day, d.loc)
			if at.After(t) && (next.IsZero() || at.Before(next)) {
				next = at
			}
		}
		if !next.IsZero() {
			return next
		}
	}
	return next
}

func (d daily) String() string {
	s := "daily at"
	for _, c := range d.clocks {
		s += " " + c.String()
	}
	return s
}
