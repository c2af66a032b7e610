// Package hours holds the per-weekday working-hours policy. The table is
// built once at startup and read-only afterwards.
package hours

import (
	"fmt"
	"time"

	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
)

// Window is the open/close wall-clock bounds a weekday offers slots in.
type Window struct {
	Open  civiltime.Clock
	Close civiltime.Clock
}

// Schedule maps each weekday to its working window. A missing entry means
// the day is closed.
type Schedule map[time.Weekday]Window

// Default is the salon's standing schedule: closed Sunday, shorter Saturday.
func Default() Schedule {
	return Schedule{
		time.Monday:    {Open: civiltime.Clock{Hour: 9}, Close: civiltime.Clock{Hour: 19}},
		time.Tuesday:   {Open: civiltime.Clock{Hour: 9}, Close: civiltime.Clock{Hour: 19}},
		time.Wednesday: {Open: civiltime.Clock{Hour: 9}, Close: civiltime.Clock{Hour: 19}},
		time.Thursday:  {Open: civiltime.Clock{Hour: 9}, Close: civiltime.Clock{Hour: 19}},
		time.Friday:    {Open: civiltime.Clock{Hour: 9}, Close: civiltime.Clock{Hour: 19}},
		time.Saturday:  {Open: civiltime.Clock{Hour: 10}, Close: civiltime.Clock{Hour: 16}},
	}
}

// WindowFor returns the working window for a weekday. ok is false when the
// day is closed.
func (s Schedule) WindowFor(day time.Weekday) (Window, bool) {
	w, ok := s[day]
	return w, ok
}

// Validate checks every configured window opens before it closes.
func (s Schedule) Validate() error {
	for day, w := range s {
		if !w.Open.Before(w.Close) {
			return fmt.Errorf("working hours for %s: open %s must be before close %s", day, w.Open, w.Close)
		}
	}
	return nil
}
