package api

import (
	"context"
	"net/http"
	"strconv"

	"charterbook/internal/entities"
	apperrors "charterbook/internal/errors"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

type AdminOperations interface {
	Today() civil.Date
	DefaultRange(today civil.Date) entities.DateRange
	ListBookings(ctx context.Context, filter entities.BookingFilter) (*entities.BookingsList, error)
	UpcomingCharters(ctx context.Context, days int) ([]entities.Booking, error)
	ExportCSV(ctx context.Context, filter entities.BookingFilter) ([]byte, string, error)
	SetStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ListBlocks(ctx context.Context, rng entities.DateRange) (*entities.BlocksList, error)
	CreateBlock(ctx context.Context, req entities.BlockRequest) (*entities.BlockedSlot, error)
	DeleteBlock(ctx context.Context, id string) error
	Calendar(ctx context.Context, rng entities.DateRange) ([]entities.CalendarDay, error)
}

type AdminHandler struct {
	svc    AdminOperations
	logger *zap.Logger
}

func NewAdminHandler(svc AdminOperations, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, logger: logger}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilter(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	list, err := h.svc.ListBookings(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) UpcomingCharters(w http.ResponseWriter, r *http.Request) {
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 90 {
			writeError(w, r, h.logger, apperrors.NewValidationError("days", "must be a number between 1 and 90"))
			return
		}
		days = n
	}
	bookings, err := h.svc.UpcomingCharters(r.Context(), days)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.BookingsList{Total: len(bookings), Bookings: bookings})
}

func (h *AdminHandler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingFilter(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	data, filename, err := h.svc.ExportCSV(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *AdminHandler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	var req StatusUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	booking, err := h.svc.SetStatus(r.Context(), id, entities.BookingStatus(req.Status))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.svc.DeleteBooking(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Booking deleted"})
}

func (h *AdminHandler) ListBlocks(w http.ResponseWriter, r *http.Request) {
	rng, err := queryRange(r, entities.DateRange{})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	list, err := h.svc.ListBlocks(r.Context(), rng)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) CreateBlock(w http.ResponseWriter, r *http.Request) {
	var req entities.BlockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	block, err := h.svc.CreateBlock(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *AdminHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.svc.DeleteBlock(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Block removed"})
}

func (h *AdminHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	today := h.svc.Today()
	rng, err := queryRange(r, h.svc.DefaultRange(today))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	days, err := h.svc.Calendar(r.Context(), rng)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, CalendarResponse{From: rng.From, To: rng.To, Today: today, Days: days})
}
