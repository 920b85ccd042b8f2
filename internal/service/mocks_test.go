package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"charterbook/internal/availability"
	"charterbook/internal/entities"
	"charterbook/internal/repository"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) CreateIfAvailable(ctx context.Context, b *entities.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, id string, status entities.BookingStatus) (*entities.Booking, error) {
	args := m.Called(ctx, id, status)
	b, _ := args.Get(0).(*entities.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBookingStore) List(ctx context.Context, filter entities.BookingFilter) ([]entities.Booking, error) {
	args := m.Called(ctx, filter)
	b, _ := args.Get(0).([]entities.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) ListUpcoming(ctx context.Context, from, to civil.Date) ([]entities.Booking, error) {
	args := m.Called(ctx, from, to)
	b, _ := args.Get(0).([]entities.Booking)
	return b, args.Error(1)
}

func (m *mockBookingStore) ListConfirmedSlots(ctx context.Context, rng entities.DateRange) ([]entities.Booking, error) {
	args := m.Called(ctx, rng)
	b, _ := args.Get(0).([]entities.Booking)
	return b, args.Error(1)
}

type mockBlockStore struct{ mock.Mock }

func (m *mockBlockStore) Create(ctx context.Context, b *entities.BlockedSlot) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBlockStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBlockStore) List(ctx context.Context, rng entities.DateRange) ([]entities.BlockedSlot, error) {
	args := m.Called(ctx, rng)
	b, _ := args.Get(0).([]entities.BlockedSlot)
	return b, args.Error(1)
}

type countingCache struct {
	repository.NopSnapshotCache
	invalidations int
}

func (c *countingCache) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

type recordingNotifier struct {
	booked []entities.Booking
}

func (n *recordingNotifier) NotifyBookingCreated(_ context.Context, b entities.Booking) {
	n.booked = append(n.booked, b)
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []Email
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type recordingSMS struct {
	mu     sync.Mutex
	bodies []string
}

func (s *recordingSMS) SendSMS(_ context.Context, to, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, to+": "+body)
	return nil
}

// July 1st 2025, 10:00 UTC. The customer window runs to October 1st.
var testNow = time.Date(2025, time.July, 1, 10, 0, 0, 0, time.UTC)

func date(month time.Month, day int) civil.Date {
	return civil.Date{Year: 2025, Month: month, Day: day}
}

func testClock() *availability.Clock {
	return availability.NewFixedClock(testNow, time.UTC)
}

func newTestAvailability(t *testing.T, bookings *mockBookingStore, blocks *mockBlockStore, cache repository.SnapshotCache) *AvailabilityService {
	t.Helper()
	return NewAvailabilityService(bookings, blocks, cache, testClock(), 3, zap.NewNop())
}
