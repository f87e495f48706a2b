package feed

import (
	"fmt"
	"strings"
	"time"
)

// DefaultHorizon is how far ahead upcoming events are considered.
const DefaultHorizon = 7 * 24 * time.Hour

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads a feed timestamp. Values without an offset are UTC.
func ParseTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StartTime parses the event start.
func (e Event) StartTime() (time.Time, bool) { return ParseTime(e.Start) }

// EndTime parses the event end.
func (e Event) EndTime() (time.Time, bool) { return ParseTime(e.End) }

// IsActive reports start <= now <= end.
func (e Event) IsActive(now time.Time) bool {
	start, ok := e.StartTime()
	if !ok {
		return false
	}
	end, ok := e.EndTime()
	if !ok {
		return false
	}
	return !start.After(now) && !end.Before(now)
}

// IsUpcoming reports start > now and, unless until is zero, start <= until.
func (e Event) IsUpcoming(now, until time.Time) bool {
	start, ok := e.StartTime()
	if !ok || !start.After(now) {
		return false
	}
	return until.IsZero() || !start.After(until)
}

// Partitioned splits events by time window.
type Partitioned struct {
	Active   []Event
	Upcoming []Event
}

// Partition classifies events relative to now. A zero horizon means no
// upper bound for upcoming events. Past events land in neither list.
func Partition(events []Event, now, horizon time.Time) Partitioned {
	var out Partitioned
	for _, e := range events {
		switch {
		case e.IsActive(now):
			out.Active = append(out.Active, e)
		case e.IsUpcoming(now, horizon):
			out.Upcoming = append(out.Upcoming, e)
		}
	}
	return out
}

// Availability renders the event window as "Jan 2 - Jan 5", or a single
// date when start and end fall on the same day.
func (e Event) Availability() string {
	start, okStart := e.StartTime()
	end, okEnd := e.EndTime()
	switch {
	case !okStart:
		return ""
	case !okEnd || sameDay(start, end):
		return start.Format("Jan 2")
	default:
		return fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2"))
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
