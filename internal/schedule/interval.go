package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dayKeyLayout = "2006-01-02"

// TimeInterval is a half-open [Start, End) range. Used both for busy
// calendar events and for candidate meeting slots.
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

func (iv TimeInterval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Slot is a bookable interval together with the text shown to the client
// when the slot is offered.
type Slot struct {
	TimeInterval
	Label string
}

// BusyMap groups busy intervals by local calendar day. Intervals within a
// day carry no ordering guarantee; the finder sorts them before use.
type BusyMap map[string][]TimeInterval

// DayKey returns the BusyMap key for the calendar day containing t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayKeyLayout)
}

func (m BusyMap) Add(iv TimeInterval, loc *time.Location) {
	key := DayKey(iv.Start, loc)
	m[key] = append(m[key], iv)
}

// TimeOfDay is a wall-clock time within a day, e.g. the start of working
// hours.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" 24-hour notation.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return TimeOfDay{}, fmt.Errorf("time of day %q must be in HH:MM format", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q has invalid hour: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time of day %q has invalid minute: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q is out of range", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// On places the wall-clock time on the calendar day of date, in date's
// location.
func (t TimeOfDay) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}
