package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charterbook/internal/availability"
	"charterbook/internal/entities"
	apperrors "charterbook/internal/errors"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type BookingService struct {
	store        BookingStore
	availability *AvailabilityService
	notifier     Notifier
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewBookingService(store BookingStore, avail *AvailabilityService, notifier Notifier, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:        store,
		availability: avail,
		notifier:     notifier,
		validate:     newValidator(),
		logger:       logger,
	}
}

// Submit validates a customer request and stores it as a confirmed booking.
// Storage re-checks the slot under a per-date lock, so a slot that was
// available in the snapshot can still fail with ErrSlotUnavailable.
func (s *BookingService) Submit(ctx context.Context, req entities.BookingRequest) (*entities.Booking, error) {
	req = normalizeRequest(req)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	date, err := civil.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "must be a date formatted YYYY-MM-DD")
	}
	bounds := s.availability.CustomerBounds(s.availability.Today())
	if !bounds.Contains(date) {
		return nil, apperrors.NewValidationError("date",
			fmt.Sprintf("must be between %s and %s", bounds.Earliest, bounds.Latest))
	}

	snap, err := s.availability.Snapshot(ctx, entities.DateRange{From: date, To: date})
	if err != nil {
		return nil, err
	}
	sel := availability.Selection{}.
		Reduce(availability.SelectDate{Date: date}, snap).
		Reduce(availability.SelectSlot{Slot: entities.SlotType(req.SlotType)}, snap)
	if !sel.Ready(snap) {
		return nil, apperrors.ErrSlotUnavailable
	}

	booking := &entities.Booking{
		Date:      sel.Date,
		SlotType:  sel.Slot,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		PartySize: req.PartySize,
		Notes:     req.Notes,
	}
	if err := s.store.CreateIfAvailable(ctx, booking); err != nil {
		if errors.Is(err, apperrors.ErrSlotUnavailable) {
			s.logger.Info("booking lost slot race",
				zap.Stringer("date", date), zap.String("slot", req.SlotType))
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.availability.Invalidate(ctx)
	s.logger.Info("booking created",
		zap.String("id", booking.ID), zap.Stringer("date", booking.Date), zap.String("slot", string(booking.SlotType)))

	if s.notifier != nil {
		s.notifier.NotifyBookingCreated(ctx, *booking)
	}
	return booking, nil
}

func normalizeRequest(req entities.BookingRequest) entities.BookingRequest {
	req.Date = strings.TrimSpace(req.Date)
	req.SlotType = strings.ToUpper(strings.TrimSpace(req.SlotType))
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Notes = strings.TrimSpace(req.Notes)
	return req
}
