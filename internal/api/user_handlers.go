package api

import (
	"context"
	"net/http"

	"charterbook/internal/availability"
	"charterbook/internal/entities"
	"charterbook/internal/utils"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type BookingSubmitter interface {
	Submit(ctx context.Context, req entities.BookingRequest) (*entities.Booking, error)
}

type AvailabilityReader interface {
	Today() civil.Date
	DefaultRange(today civil.Date) entities.DateRange
	CustomerBounds(today civil.Date) availability.Bounds
	CustomerCalendar(ctx context.Context, rng entities.DateRange, today civil.Date) ([]entities.CalendarDay, error)
	DayAvailability(ctx context.Context, date civil.Date) (entities.SlotAvailability, error)
}

type UserHandler struct {
	bookings     BookingSubmitter
	availability AvailabilityReader
	logger       *zap.Logger
}

func NewUserHandler(bookings BookingSubmitter, avail AvailabilityReader, logger *zap.Logger) *UserHandler {
	return &UserHandler{bookings: bookings, availability: avail, logger: logger}
}

func (h *UserHandler) Slots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, utils.AllSlotDetails())
}

func (h *UserHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	today := h.availability.Today()
	rng, err := queryRange(r, h.availability.DefaultRange(today))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	days, err := h.availability.CustomerCalendar(r.Context(), rng, today)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, CalendarResponse{
		From:  rng.From,
		To:    rng.To,
		Today: today,
		Days:  days,
	})
}

func (h *UserHandler) DayAvailability(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate("date", mux.Vars(r)["date"])
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	avail, err := h.availability.DayAvailability(r.Context(), date)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, DayAvailabilityResponse{
		Date:         date,
		Availability: avail,
		Bookable:     h.availability.CustomerBounds(h.availability.Today()).Contains(date),
	})
}

func (h *UserHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	booking, err := h.bookings.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, BookingResponse{Booking: booking, Message: "Booking confirmed."})
}
