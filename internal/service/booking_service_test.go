package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Daniel-dot92/bookings-app/internal/availability"
	"github.com/Daniel-dot92/bookings-app/internal/calendar"
	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
	"github.com/Daniel-dot92/bookings-app/internal/hours"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
)

const testCalendarID = "salon@group.calendar.google.com"

type calendarBackendMock struct {
	busy      []availability.Interval
	busyErr   error
	eventID   string
	insertErr error
	busyCalls int
	busyFrom  time.Time
	busyTo    time.Time
	inserted  []calendar.Event
}

func (m *calendarBackendMock) BusyIntervals(ctx context.Context, from, to time.Time) ([]availability.Interval, error) {
	m.busyCalls++
	m.busyFrom = from
	m.busyTo = to
	if m.busyErr != nil {
		return nil, m.busyErr
	}
	return m.busy, nil
}

func (m *calendarBackendMock) CreateEvent(ctx context.Context, ev calendar.Event) (string, error) {
	m.inserted = append(m.inserted, ev)
	if m.insertErr != nil {
		return "", m.insertErr
	}
	return m.eventID, nil
}

type holdsMock struct {
	denied   bool
	err      error
	acquired int
	released int
}

func (m *holdsMock) Acquire(ctx context.Context, calendarID string, start time.Time) (string, bool, error) {
	m.acquired++
	if m.err != nil {
		return "", false, m.err
	}
	if m.denied {
		return "", false, nil
	}
	return "token-1", true, nil
}

func (m *holdsMock) Release(ctx context.Context, calendarID string, start time.Time, token string) error {
	m.released++
	return nil
}

func validBooking() CreateBookingRequest {
	return CreateBookingRequest{
		Date:      "2025-09-17",
		Time:      "10:00",
		Duration:  30,
		FirstName: "Maria",
		LastName:  "Petrova",
		Email:     "maria@example.com",
		Phone:     "+359881234567",
		Procedure: "Consultation",
	}
}

func newBookingService(backend calendarBackend, holds SlotHolder) *BookingService {
	return NewBookingService(backend, holds, hours.Default(), testCalendarID, nil, nil)
}

func TestBookSuccess(t *testing.T) {
	backend := &calendarBackendMock{eventID: "evt-123"}
	svc := newBookingService(backend, nil)

	conf, err := svc.Book(context.Background(), validBooking())
	require.NoError(t, err)
	require.Equal(t, "evt-123", conf.EventID)
	require.Equal(t, "2025-09-17", conf.Date)
	require.Equal(t, "10:00", conf.Time)

	require.Equal(t, 1, backend.busyCalls)
	require.Len(t, backend.inserted, 1)

	// Re-check window is exactly the requested interval (10:00-10:30 EEST).
	wantStart := time.Date(2025, time.September, 17, 7, 0, 0, 0, time.UTC)
	require.True(t, backend.busyFrom.Equal(wantStart))
	require.True(t, backend.busyTo.Equal(wantStart.Add(30*time.Minute)))

	ev := backend.inserted[0]
	require.Equal(t, "Booking: Maria Petrova – Consultation (30 min)", ev.Summary)
	require.Contains(t, ev.Description, "Phone: +359881234567")
	require.Equal(t, "maria@example.com", ev.AttendeeEmail)
	require.True(t, ev.Start.Equal(wantStart))
	require.True(t, ev.End.Equal(wantStart.Add(30*time.Minute)))
}

func TestBookValidationErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateBookingRequest)
	}{
		{"missing first name", func(r *CreateBookingRequest) { r.FirstName = "" }},
		{"missing phone", func(r *CreateBookingRequest) { r.Phone = "" }},
		{"bad email", func(r *CreateBookingRequest) { r.Email = "not-an-email" }},
		{"bad duration", func(r *CreateBookingRequest) { r.Duration = 45 }},
		{"bad date", func(r *CreateBookingRequest) { r.Date = "17.09.2025" }},
		{"bad time", func(r *CreateBookingRequest) { r.Time = "ten" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &calendarBackendMock{eventID: "evt-123"}
			svc := newBookingService(backend, nil)

			req := validBooking()
			tc.mutate(&req)

			_, err := svc.Book(context.Background(), req)
			require.Error(t, err)
			require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			require.Zero(t, backend.busyCalls, "validation must reject before any external call")
			require.Empty(t, backend.inserted)
		})
	}
}

func TestBookValidationNamesField(t *testing.T) {
	svc := newBookingService(&calendarBackendMock{}, nil)

	req := validBooking()
	req.Procedure = ""
	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	require.Contains(t, appErrors.FromError(err).Message, "procedure")
}

func TestBookRejectsOutsideWorkingHours(t *testing.T) {
	backend := &calendarBackendMock{eventID: "evt-123"}
	svc := newBookingService(backend, nil)

	req := validBooking()
	req.Time = "18:45" // 30 min would end past 19:00 close
	_, err := svc.Book(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Zero(t, backend.busyCalls)

	req = validBooking()
	req.Date = "2025-09-14" // Sunday, closed
	_, err = svc.Book(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBookConflictAtReCheck(t *testing.T) {
	// Another booking claimed 10:00-10:30 between discovery and submission.
	date := civiltime.Date{Year: 2025, Month: time.September, Day: 17}
	backend := &calendarBackendMock{
		busy:    []availability.Interval{localBusy(t, date, "10:00", "10:30")},
		eventID: "evt-123",
	}
	svc := newBookingService(backend, nil)

	_, err := svc.Book(context.Background(), validBooking())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code, "conflict must be distinct from other failures")
	require.Empty(t, backend.inserted, "no event may be created on conflict")
}

func TestBookTouchingBusyIntervalIsNotAConflict(t *testing.T) {
	date := civiltime.Date{Year: 2025, Month: time.September, Day: 17}
	backend := &calendarBackendMock{
		busy:    []availability.Interval{localBusy(t, date, "09:30", "10:00"), localBusy(t, date, "10:30", "11:00")},
		eventID: "evt-123",
	}
	svc := newBookingService(backend, nil)

	conf, err := svc.Book(context.Background(), validBooking())
	require.NoError(t, err)
	require.Equal(t, "evt-123", conf.EventID)
}

func TestBookUpstreamFailures(t *testing.T) {
	backend := &calendarBackendMock{busyErr: errors.New("dial tcp: timeout")}
	svc := newBookingService(backend, nil)

	_, err := svc.Book(context.Background(), validBooking())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
	require.Empty(t, backend.inserted)

	backend = &calendarBackendMock{insertErr: errors.New("502 backend error")}
	svc = newBookingService(backend, nil)

	_, err = svc.Book(context.Background(), validBooking())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestBookHoldDenied(t *testing.T) {
	backend := &calendarBackendMock{eventID: "evt-123"}
	holds := &holdsMock{denied: true}
	svc := newBookingService(backend, holds)

	_, err := svc.Book(context.Background(), validBooking())
	require.Error(t, err)
	require.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code)
	require.Zero(t, backend.busyCalls, "denied hold short-circuits before the re-check")
}

func TestBookHoldReleasedOnConflict(t *testing.T) {
	date := civiltime.Date{Year: 2025, Month: time.September, Day: 17}
	backend := &calendarBackendMock{
		busy: []availability.Interval{localBusy(t, date, "10:00", "10:30")},
	}
	holds := &holdsMock{}
	svc := newBookingService(backend, holds)

	_, err := svc.Book(context.Background(), validBooking())
	require.Error(t, err)
	require.Equal(t, 1, holds.acquired)
	require.Equal(t, 1, holds.released, "rejected booking frees the hold for the next caller")
}

func TestBookHoldKeptAfterAmbiguousInsert(t *testing.T) {
	backend := &calendarBackendMock{insertErr: errors.New("timeout awaiting response")}
	holds := &holdsMock{}
	svc := newBookingService(backend, holds)

	_, err := svc.Book(context.Background(), validBooking())
	require.Error(t, err)
	require.Zero(t, holds.released, "ambiguous insert keeps the hold until it expires")
}

func TestBookHoldErrorFallsBackToPlainReCheck(t *testing.T) {
	backend := &calendarBackendMock{eventID: "evt-123"}
	holds := &holdsMock{err: errors.New("redis: connection refused")}
	svc := newBookingService(backend, holds)

	conf, err := svc.Book(context.Background(), validBooking())
	require.NoError(t, err)
	require.Equal(t, "evt-123", conf.EventID)
	require.Equal(t, 1, backend.busyCalls)
}
