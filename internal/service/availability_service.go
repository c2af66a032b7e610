package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Daniel-dot92/bookings-app/internal/availability"
	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
	"github.com/Daniel-dot92/bookings-app/internal/hours"
	"github.com/Daniel-dot92/bookings-app/internal/models"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
)

// Booking lengths the API accepts, in minutes.
const (
	DurationShort = 30
	DurationLong  = 60
)

type busyIntervalSource interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.Interval, error)
}

// AvailabilityService computes the labelled slot list for a date against
// live calendar occupancy.
type AvailabilityService struct {
	source   busyIntervalSource
	schedule hours.Schedule
	logger   *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(source busyIntervalSource, schedule hours.Schedule, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{source: source, schedule: schedule, logger: logger}
}

// DayAvailability returns every candidate slot of the date with its verdict.
// A closed weekday yields an empty slot list without touching the upstream
// calendar; an upstream failure is an error, never a fully-booked answer.
func (s *AvailabilityService) DayAvailability(ctx context.Context, date civiltime.Date, duration int) (*models.DayAvailability, error) {
	if err := validDuration(duration); err != nil {
		return nil, err
	}

	weekday, err := date.Weekday()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve weekday")
	}

	result := &models.DayAvailability{Date: date.String(), Duration: duration, Slots: []models.Slot{}}

	window, open := s.schedule.WindowFor(weekday)
	if !open {
		s.logger.Debug("closed day", zap.String("date", date.String()), zap.Stringer("weekday", weekday))
		return result, nil
	}

	openAt, err := civiltime.ToInstant(date, window.Open)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve opening time")
	}
	closeAt, err := civiltime.ToInstant(date, window.Close)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve closing time")
	}

	dayStart, dayEnd, err := civiltime.DayBounds(date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve day bounds")
	}

	busy, err := s.source.BusyIntervals(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to fetch calendar occupancy")
	}

	dur := time.Duration(duration) * time.Minute
	for _, start := range availability.Enumerate(openAt, closeAt, availability.Step) {
		label, err := civiltime.Label(start)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to label slot")
		}
		result.Slots = append(result.Slots, models.Slot{
			Time:      label,
			Available: availability.IsFree(start, dur, closeAt, busy),
		})
	}

	return result, nil
}

func validDuration(duration int) error {
	if duration != DurationShort && duration != DurationLong {
		return appErrors.Clone(appErrors.ErrValidation, "duration must be 30 or 60 minutes")
	}
	return nil
}
