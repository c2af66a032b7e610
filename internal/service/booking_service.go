package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Daniel-dot92/bookings-app/internal/availability"
	"github.com/Daniel-dot92/bookings-app/internal/calendar"
	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
	"github.com/Daniel-dot92/bookings-app/internal/hours"
	"github.com/Daniel-dot92/bookings-app/internal/models"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
)

type calendarBackend interface {
	BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.Interval, error)
	CreateEvent(ctx context.Context, ev calendar.Event) (string, error)
}

// SlotHolder places short-lived exclusive claims on a slot. Implementations
// are advisory: a failed backend must not make slots unbookable.
type SlotHolder interface {
	Acquire(ctx context.Context, calendarID string, start time.Time) (string, bool, error)
	Release(ctx context.Context, calendarID string, start time.Time, token string) error
}

// CreateBookingRequest describes the booking submission payload. Field names
// match the public widget form.
type CreateBookingRequest struct {
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Duration  int    `json:"duration" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Procedure string `json:"procedure" validate:"required"`
	Symptoms  string `json:"symptoms"`
}

// BookingService runs the commit protocol: validate, re-check the slot
// against a fresh occupancy query, then create the event. The re-check
// narrows the window between a user seeing the slot and claiming it; the
// optional Redis hold closes it further for requests passing through this
// process group.
type BookingService struct {
	backend    calendarBackend
	holds      SlotHolder
	schedule   hours.Schedule
	calendarID string
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewBookingService instantiates BookingService. holds may be nil.
func NewBookingService(backend calendarBackend, holds SlotHolder, schedule hours.Schedule, calendarID string, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		backend:    backend,
		holds:      holds,
		schedule:   schedule,
		calendarID: calendarID,
		validator:  validate,
		logger:     logger,
	}
}

// Book validates the request, re-checks the exact interval and commits the
// event. Outcomes are distinguishable by error kind: validation (no external
// call made), slot taken (no event created), upstream failure.
func (s *BookingService) Book(ctx context.Context, req CreateBookingRequest) (*models.BookingConfirmation, error) {
	start, end, err := s.validated(req)
	if err != nil {
		return nil, err
	}

	// inserting reports whether the flow reached the event insert; from that
	// point on the hold must not be freed early, since an ambiguous insert
	// failure may still have created the event.
	var inserting bool

	if s.holds != nil {
		token, ok, holdErr := s.holds.Acquire(ctx, s.calendarID, start)
		switch {
		case holdErr != nil:
			// The hold is advisory; a broken Redis must not take bookings
			// down. The commit still has the re-check below.
			s.logger.Warn("slot hold unavailable, continuing without it", zap.Error(holdErr))
		case !ok:
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "this slot is being booked right now, please pick another time")
		default:
			defer func() {
				if err != nil && !inserting {
					_ = s.holds.Release(context.WithoutCancel(ctx), s.calendarID, start, token)
				}
			}()
		}
	}

	// Fresh occupancy query scoped to exactly the requested interval; an
	// earlier availability snapshot is never trusted here.
	busy, fetchErr := s.backend.BusyIntervals(ctx, start, end)
	if fetchErr != nil {
		err = appErrors.Wrap(fetchErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to re-check slot occupancy")
		return nil, err
	}
	if availability.Overlaps(start, end, busy) {
		err = appErrors.Clone(appErrors.ErrSlotTaken, "the slot was just taken, please pick another time")
		return nil, err
	}

	inserting = true
	eventID, insertErr := s.backend.CreateEvent(ctx, s.buildEvent(req, start, end))
	if insertErr != nil {
		// Event insertion is not idempotent: on an ambiguous failure the
		// event may or may not exist, so it is surfaced, never retried.
		err = appErrors.Wrap(insertErr, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to create the booking event")
		return nil, err
	}

	s.logger.Info("booking committed",
		zap.String("event_id", eventID),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
		zap.Int("duration", req.Duration))

	return &models.BookingConfirmation{EventID: eventID, Date: req.Date, Time: req.Time}, nil
}

// validated checks the payload and resolves the requested interval. It also
// re-applies the working-hours bound defensively, so a hand-crafted request
// cannot book outside opening hours even if the slot is free.
func (s *BookingService) validated(req CreateBookingRequest) (time.Time, time.Time, error) {
	if err := s.validator.Struct(req); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("field %s is missing or malformed", jsonFieldName(fields[0].Field())))
		}
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid booking payload")
	}
	if err := validDuration(req.Duration); err != nil {
		return time.Time{}, time.Time{}, err
	}

	date, err := civiltime.ParseDate(req.Date)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "field date must be formatted YYYY-MM-DD")
	}
	clock, err := civiltime.ParseClock(req.Time)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "field time must be formatted HH:MM")
	}

	start, err := civiltime.ToInstant(date, clock)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve booking start")
	}
	end := start.Add(time.Duration(req.Duration) * time.Minute)

	weekday, err := date.Weekday()
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve weekday")
	}
	window, open := s.schedule.WindowFor(weekday)
	if !open {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "the salon is closed on the requested day")
	}
	openAt, err := civiltime.ToInstant(date, window.Open)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve opening time")
	}
	closeAt, err := civiltime.ToInstant(date, window.Close)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve closing time")
	}
	if start.Before(openAt) || end.After(closeAt) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "the requested time is outside working hours")
	}

	return start, end, nil
}

// jsonFieldName maps a Go struct field name to its json form; the request
// tags only differ by the leading letter's case.
func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func (s *BookingService) buildEvent(req CreateBookingRequest, start, end time.Time) calendar.Event {
	notes := strings.TrimSpace(req.Symptoms)
	if notes == "" {
		notes = "—"
	}
	return calendar.Event{
		Summary: fmt.Sprintf("Booking: %s %s – %s (%d min)", req.FirstName, req.LastName, req.Procedure, req.Duration),
		Description: fmt.Sprintf("Name: %s %s\nEmail: %s\nPhone: %s\nProcedure: %s\nNotes: %s\nSource: website",
			req.FirstName, req.LastName, req.Email, req.Phone, req.Procedure, notes),
		Start:         start,
		End:           end,
		AttendeeEmail: req.Email,
	}
}
