package service

import (
	"context"
	"fmt"

	"charterbook/internal/availability"
	"charterbook/internal/entities"
	"charterbook/internal/repository"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

// AvailabilityService loads availability snapshots through the cache and
// turns them into calendars.
type AvailabilityService struct {
	bookings      BookingStore
	blocks        BlockStore
	cache         repository.SnapshotCache
	clock         *availability.Clock
	horizonMonths int
	logger        *zap.Logger
}

func NewAvailabilityService(
	bookings BookingStore,
	blocks BlockStore,
	cache repository.SnapshotCache,
	clock *availability.Clock,
	horizonMonths int,
	logger *zap.Logger,
) *AvailabilityService {
	if cache == nil {
		cache = repository.NopSnapshotCache{}
	}
	return &AvailabilityService{
		bookings:      bookings,
		blocks:        blocks,
		cache:         cache,
		clock:         clock,
		horizonMonths: horizonMonths,
		logger:        logger,
	}
}

func (s *AvailabilityService) Today() civil.Date {
	return s.clock.Today()
}

// CustomerBounds is the window customers may book in starting at today.
func (s *AvailabilityService) CustomerBounds(today civil.Date) availability.Bounds {
	return availability.CustomerBounds(today, s.horizonMonths)
}

// DefaultRange spans the month of today through the last month of the
// booking horizon.
func (s *AvailabilityService) DefaultRange(today civil.Date) entities.DateRange {
	return entities.DateRange{
		From: availability.StartOfMonth(today),
		To:   availability.EndOfMonth(availability.AddMonths(today, s.horizonMonths)),
	}
}

// Snapshot returns the confirmed bookings and blocks in rng. When blocks
// cannot be read the snapshot is built from bookings alone and is not cached.
func (s *AvailabilityService) Snapshot(ctx context.Context, rng entities.DateRange) (availability.Snapshot, error) {
	cached, key, err := s.cache.Get(ctx, rng)
	if err != nil {
		s.logger.Warn("snapshot cache read failed", zap.Error(err))
		key = ""
	}
	if cached != nil {
		return *cached, nil
	}

	bookings, err := s.bookings.ListConfirmedSlots(ctx, rng)
	if err != nil {
		return availability.Snapshot{}, fmt.Errorf("load bookings: %w", err)
	}
	snap := availability.Snapshot{Bookings: bookings}

	blocks, err := s.blocks.List(ctx, rng)
	if err != nil {
		s.logger.Warn("blocked slots unavailable, using bookings only",
			zap.Stringer("from", rng.From), zap.Stringer("to", rng.To), zap.Error(err))
		return snap, nil
	}
	snap.Blocks = blocks

	if key != "" {
		if err := s.cache.Set(ctx, key, snap); err != nil {
			s.logger.Warn("snapshot cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}

// Invalidate drops cached snapshots after a write. Failures are logged; the
// cache TTL bounds how long a stale snapshot can live.
func (s *AvailabilityService) Invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("snapshot cache invalidation failed", zap.Error(err))
	}
}

func (s *AvailabilityService) DayAvailability(ctx context.Context, date civil.Date) (entities.SlotAvailability, error) {
	snap, err := s.Snapshot(ctx, entities.DateRange{From: date, To: date})
	if err != nil {
		return entities.SlotAvailability{}, err
	}
	return availability.ResolveDate(snap, date), nil
}

// CustomerCalendar disables days outside the booking window that starts at
// today as well as fully booked days.
func (s *AvailabilityService) CustomerCalendar(ctx context.Context, rng entities.DateRange, today civil.Date) ([]entities.CalendarDay, error) {
	snap, err := s.Snapshot(ctx, rng)
	if err != nil {
		return nil, err
	}
	return availability.Calendar(snap, rng.From, rng.To, s.CustomerBounds(today)), nil
}

func (s *AvailabilityService) AdminCalendar(ctx context.Context, rng entities.DateRange) ([]entities.CalendarDay, error) {
	snap, err := s.Snapshot(ctx, rng)
	if err != nil {
		return nil, err
	}
	return availability.Calendar(snap, rng.From, rng.To, availability.Bounds{}), nil
}
