package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Daniel-dot92/bookings-app/internal/models"
	"github.com/Daniel-dot92/bookings-app/internal/service"
	appErrors "github.com/Daniel-dot92/bookings-app/pkg/errors"
	"github.com/Daniel-dot92/bookings-app/pkg/response"
)

type bookingCommitter interface {
	Book(ctx context.Context, req service.CreateBookingRequest) (*models.BookingConfirmation, error)
}

// BookingHandler exposes the booking submission endpoint.
type BookingHandler struct {
	service bookingCommitter
	metrics *service.MetricsService
}

// NewBookingHandler constructs handler. metrics may be nil.
func NewBookingHandler(svc bookingCommitter, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{service: svc, metrics: metrics}
}

// Create godoc
// @Summary Book a slot
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.CountBooking(service.BookingOutcomeInvalid)
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid booking payload"))
		return
	}

	conf, err := h.service.Book(c.Request.Context(), req)
	if err != nil {
		h.metrics.CountBooking(bookingOutcome(err))
		response.Error(c, err)
		return
	}

	h.metrics.CountBooking(service.BookingOutcomeCommitted)
	response.Created(c, conf)
}

func bookingOutcome(err error) string {
	switch appErrors.FromError(err).Code {
	case appErrors.ErrValidation.Code:
		return service.BookingOutcomeInvalid
	case appErrors.ErrSlotTaken.Code:
		return service.BookingOutcomeConflict
	case appErrors.ErrUpstream.Code:
		return service.BookingOutcomeUpstream
	default:
		return service.BookingOutcomeInternal
	}
}
