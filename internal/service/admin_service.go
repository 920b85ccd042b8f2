package service

import (
	"context"
	"fmt"
	"strings"

	"charterbook/internal/entities"
	apperrors "charterbook/internal/errors"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const DefaultUpcomingDays = 7

type AdminService struct {
	bookings     BookingStore
	blocks       BlockStore
	availability *AvailabilityService
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewAdminService(bookings BookingStore, blocks BlockStore, avail *AvailabilityService, logger *zap.Logger) *AdminService {
	return &AdminService{
		bookings:     bookings,
		blocks:       blocks,
		availability: avail,
		validate:     newValidator(),
		logger:       logger,
	}
}

func (s *AdminService) ListBookings(ctx context.Context, filter entities.BookingFilter) (*entities.BookingsList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("status", "must be one of confirmed canceled")
	}
	bookings, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return &entities.BookingsList{Total: len(bookings), Bookings: bookings}, nil
}

// UpcomingCharters returns confirmed bookings from today through today+days.
func (s *AdminService) UpcomingCharters(ctx context.Context, days int) ([]entities.Booking, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	today := s.availability.Today()
	bookings, err := s.bookings.ListUpcoming(ctx, today, today.AddDays(days))
	if err != nil {
		return nil, fmt.Errorf("list upcoming bookings: %w", err)
	}
	return bookings, nil
}

// SetStatus cancels or restores a booking.
func (s *AdminService) SetStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("status", "must be one of confirmed canceled")
	}
	booking, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.availability.Invalidate(ctx)
	s.logger.Info("booking status changed", zap.String("id", id), zap.String("status", string(status)))
	return booking, nil
}

func (s *AdminService) DeleteBooking(ctx context.Context, id string) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		return err
	}
	s.availability.Invalidate(ctx)
	s.logger.Info("booking deleted", zap.String("id", id))
	return nil
}

// CreateBlock closes a slot. Existing bookings on it are not checked.
func (s *AdminService) CreateBlock(ctx context.Context, req entities.BlockRequest) (*entities.BlockedSlot, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.SlotType = strings.ToUpper(strings.TrimSpace(req.SlotType))
	req.Reason = strings.TrimSpace(req.Reason)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}
	date, err := civil.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "must be a date formatted YYYY-MM-DD")
	}

	block := &entities.BlockedSlot{Date: date, SlotType: entities.SlotType(req.SlotType), Reason: req.Reason}
	if err := s.blocks.Create(ctx, block); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	s.availability.Invalidate(ctx)
	s.logger.Info("slot blocked", zap.String("id", block.ID), zap.Stringer("date", date), zap.String("slot", req.SlotType))
	return block, nil
}

// DeleteBlock is idempotent.
func (s *AdminService) DeleteBlock(ctx context.Context, id string) error {
	if err := s.blocks.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete block: %w", err)
	}
	s.availability.Invalidate(ctx)
	s.logger.Info("block removed", zap.String("id", id))
	return nil
}

func (s *AdminService) ListBlocks(ctx context.Context, rng entities.DateRange) (*entities.BlocksList, error) {
	blocks, err := s.blocks.List(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return &entities.BlocksList{Total: len(blocks), Blocks: blocks}, nil
}

func (s *AdminService) Calendar(ctx context.Context, rng entities.DateRange) ([]entities.CalendarDay, error) {
	return s.availability.AdminCalendar(ctx, rng)
}

func (s *AdminService) Today() civil.Date {
	return s.availability.Today()
}

func (s *AdminService) DefaultRange(today civil.Date) entities.DateRange {
	return s.availability.DefaultRange(today)
}
