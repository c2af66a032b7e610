package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Daniel-dot92/bookings-app/internal/civiltime"
	"github.com/Daniel-dot92/bookings-app/internal/models"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
	"github.com/Daniel-dot92/bookings-app/pkg/response"
)

type availabilityProvider interface {
	DayAvailability(ctx context.Context, date civiltime.Date, duration int) (*models.DayAvailability, error)
}

// AvailabilityHandler exposes the slot discovery endpoint.
type AvailabilityHandler struct {
	service availabilityProvider
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc availabilityProvider) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Day godoc
// @Summary List slots for a date
// @Tags Availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param duration query int false "Booking length in minutes (30 or 60)"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Day(c *gin.Context) {
	rawDate := c.Query("date")
	if rawDate == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "query parameter date is required"))
		return
	}
	date, err := civiltime.ParseDate(rawDate)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD"))
		return
	}

	duration, err := strconv.Atoi(c.DefaultQuery("duration", "30"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "duration must be 30 or 60 minutes"))
		return
	}

	result, err := h.service.DayAvailability(c.Request.Context(), date, duration)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
