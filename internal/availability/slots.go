// Package availability implements slot enumeration and the free/busy
// conflict test. All arithmetic happens on absolute instants; callers do the
// civil-time conversion before coming here.
package availability

import "time"

// Step is the fixed distance between candidate slot starts. It is
// independent of the booked duration: a 60-minute booking still considers
// every 30-minute boundary.
const Step = 30 * time.Minute

// Interval is an externally reported busy span, half-open [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Enumerate returns the candidate slot starts for a working window: open,
// open+step, ... strictly before close. Deterministic and stateless; calling
// it twice with the same inputs yields the same ascending sequence.
func Enumerate(open, close time.Time, step time.Duration) []time.Time {
	if step <= 0 || !open.Before(close) {
		return nil
	}
	var starts []time.Time
	for t := open; t.Before(close); t = t.Add(step) {
		starts = append(starts, t)
	}
	return starts
}

// IsFree reports whether a booking of the given duration starting at start
// can be taken: the whole occupancy must end by close and must not intersect
// any busy interval.
func IsFree(start time.Time, duration time.Duration, close time.Time, busy []Interval) bool {
	end := start.Add(duration)
	if end.After(close) {
		return false
	}
	return !Overlaps(start, end, busy)
}

// Overlaps reports whether [start, end) intersects any busy interval.
// Half-open semantics: intervals that merely touch do not overlap.
func Overlaps(start, end time.Time, busy []Interval) bool {
	for _, b := range busy {
		if start.Before(b.End) && b.Start.Before(end) {
			return true
		}
	}
	return false
}
