package service

import (
	"context"

	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
)

type BookingStore interface {
	CreateIfAvailable(ctx context.Context, b *entities.Booking) error
	UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter entities.BookingFilter) ([]entities.Booking, error)
	ListUpcoming(ctx context.Context, from, to civil.Date) ([]entities.Booking, error)
	ListConfirmedSlots(ctx context.Context, rng entities.DateRange) ([]entities.Booking, error)
}

type BlockStore interface {
	Create(ctx context.Context, b *entities.BlockedSlot) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, rng entities.DateRange) ([]entities.BlockedSlot, error)
}

// Notifier is told about new bookings. Implementations must not block the
// caller or report failures back to it, and must outlive ctx.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, b entities.Booking)
}
