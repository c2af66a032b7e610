// Package civiltime converts between wall-clock time in the salon's civil
// timezone and absolute instants. It is the only place in the codebase that
// knows the timezone; every other package compares instants.
package civiltime

import (
	"fmt"
	"sync"
	"time"
)

// Zone is the fixed civil timezone all dates and clock times are
// interpreted in.
const Zone = "Europe/Sofia"

var (
	zoneOnce sync.Once
	zoneLoc  *time.Location
	zoneErr  error
)

func location() (*time.Location, error) {
	zoneOnce.Do(func() {
		zoneLoc, zoneErr = time.LoadLocation(Zone)
	})
	return zoneLoc, zoneErr
}

// Date is a calendar date with no time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Weekday returns the day of week the date falls on in the civil timezone.
// Noon is used as the probe instant so a DST transition at midnight cannot
// shift the result to a neighbouring day.
func (d Date) Weekday() (time.Weekday, error) {
	noon, err := ToInstant(d, Clock{Hour: 12})
	if err != nil {
		return 0, err
	}
	loc, err := location()
	if err != nil {
		return 0, err
	}
	return noon.In(loc).Weekday(), nil
}

// Clock is a wall-clock time of day, meaningful only together with a Date
// and the civil timezone.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an HH:MM string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Before reports whether c reads earlier on the clock face than other.
func (c Clock) Before(other Clock) bool {
	if c.Hour != other.Hour {
		return c.Hour < other.Hour
	}
	return c.Minute < other.Minute
}

// ToInstant converts a civil date and clock time to the absolute instant it
// names in the civil timezone. The naive UTC instant for the raw numbers is
// formed first, then shifted by the zone's offset at that instant, so the
// offset is resolved per call and never assumed constant across a day.
func ToInstant(d Date, c Clock) (time.Time, error) {
	loc, err := location()
	if err != nil {
		return time.Time{}, fmt.Errorf("load timezone %s: %w", Zone, err)
	}
	naive := time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, time.UTC)
	_, offset := naive.In(loc).Zone()
	return naive.Add(-time.Duration(offset) * time.Second), nil
}

// Label renders an instant as the HH:MM wall-clock reading in the civil
// timezone. Inverse of ToInstant for any instant ToInstant can produce on a
// day without a DST transition.
func Label(t time.Time) (string, error) {
	loc, err := location()
	if err != nil {
		return "", fmt.Errorf("load timezone %s: %w", Zone, err)
	}
	return t.In(loc).Format("15:04"), nil
}

// DayBounds returns the instants of 00:00 and 23:59 of the date, the window
// the external calendar is queried over for a day's availability.
func DayBounds(d Date) (time.Time, time.Time, error) {
	start, err := ToInstant(d, Clock{})
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ToInstant(d, Clock{Hour: 23, Minute: 59})
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
