package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
	"github.com/Daniel-dot92/bookings-app/internal/models"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
	"github.com/Daniel-dot92/bookings-app/pkg/response"
)

type availabilityMock struct {
	captured struct {
		date     civiltime.Date
		duration int
	}
	result *models.DayAvailability
	err    error
}

func (m *availabilityMock) DayAvailability(ctx context.Context, date civiltime.Date, duration int) (*models.DayAvailability, error) {
	m.captured.date = date
	m.captured.duration = duration
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func performGet(t *testing.T, h *AvailabilityHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	h.Day(c)
	return w
}

func TestAvailabilityDaySuccess(t *testing.T) {
	mockSvc := &availabilityMock{result: &models.DayAvailability{
		Date:     "2025-09-17",
		Duration: 60,
		Slots:    []models.Slot{{Time: "09:00", Available: true}, {Time: "09:30", Available: false}},
	}}
	h := NewAvailabilityHandler(mockSvc)

	w := performGet(t, h, "/availability?date=2025-09-17&duration=60")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "2025-09-17", mockSvc.captured.date.String())
	require.Equal(t, 60, mockSvc.captured.duration)

	var envelope struct {
		Data models.DayAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Slots, 2)
	require.Equal(t, "09:00", envelope.Data.Slots[0].Time)
	require.True(t, envelope.Data.Slots[0].Available)
	require.False(t, envelope.Data.Slots[1].Available)
}

func TestAvailabilityDayDefaultsDuration(t *testing.T) {
	mockSvc := &availabilityMock{result: &models.DayAvailability{Slots: []models.Slot{}}}
	h := NewAvailabilityHandler(mockSvc)

	w := performGet(t, h, "/availability?date=2025-09-17")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 30, mockSvc.captured.duration)
}

func TestAvailabilityDayMissingDate(t *testing.T) {
	h := NewAvailabilityHandler(&availabilityMock{})

	w := performGet(t, h, "/availability")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityDayBadDate(t *testing.T) {
	h := NewAvailabilityHandler(&availabilityMock{})

	w := performGet(t, h, "/availability?date=17.09.2025")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityDayBadDuration(t *testing.T) {
	h := NewAvailabilityHandler(&availabilityMock{})

	w := performGet(t, h, "/availability?date=2025-09-17&duration=soon")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityDayUpstreamError(t *testing.T) {
	mockSvc := &availabilityMock{err: appErrors.Clone(appErrors.ErrUpstream, "calendar unreachable")}
	h := NewAvailabilityHandler(mockSvc)

	w := performGet(t, h, "/availability?date=2025-09-17")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	require.Equal(t, appErrors.ErrUpstream.Code, envelope.Error.Code)
}
