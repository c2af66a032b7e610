package service

import (
	"context"
	"time"

	"github.com/Daniel-dot92/bookings-app/internal/availability"
	"github.com/Daniel-dot92/bookings-app/internal/calendar"
)

// InstrumentedCalendar decorates a calendar backend with call-duration
// metrics. It satisfies both the availability source and the booking
// backend interfaces.
type InstrumentedCalendar struct {
	backend calendarBackend
	metrics *MetricsService
}

// NewInstrumentedCalendar wraps backend; metrics may be nil.
func NewInstrumentedCalendar(backend calendarBackend, metrics *MetricsService) *InstrumentedCalendar {
	return &InstrumentedCalendar{backend: backend, metrics: metrics}
}

func (i *InstrumentedCalendar) BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	start := time.Now()
	intervals, err := i.backend.BusyIntervals(ctx, from, to)
	i.metrics.ObserveCalendarCall("freebusy", time.Since(start))
	return intervals, err
}

func (i *InstrumentedCalendar) CreateEvent(ctx context.Context, ev calendar.Event) (string, error) {
	start := time.Now()
	id, err := i.backend.CreateEvent(ctx, ev)
	i.metrics.ObserveCalendarCall("insert_event", time.Since(start))
	return id, err
}
