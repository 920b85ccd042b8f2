package service

import (
	"context"
	"fmt"
	"time"

	"charterbook/internal/availability"
	"charterbook/internal/entities"

	"cloud.google.com/go/civil"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const digestTimeout = time.Minute

type DigestStore interface {
	ListUpcoming(ctx context.Context, from, to civil.Date) ([]entities.Booking, error)
}

type DigestSender interface {
	SendDigest(ctx context.Context, bookings []entities.Booking, from, to civil.Date) error
}

// JobService runs the scheduled owner digest of upcoming charters.
type JobService struct {
	store  DigestStore
	sender DigestSender
	clock  *availability.Clock
	days   int
	logger *zap.Logger
}

func NewJobService(store DigestStore, sender DigestSender, clock *availability.Clock, logger *zap.Logger) *JobService {
	return &JobService{store: store, sender: sender, clock: clock, days: DefaultUpcomingDays, logger: logger}
}

// SendUpcomingDigest emails the owner the confirmed charters of the next days.
// Nothing is sent when there are none.
func (s *JobService) SendUpcomingDigest(ctx context.Context) error {
	from := s.clock.Today()
	to := from.AddDays(s.days)

	bookings, err := s.store.ListUpcoming(ctx, from, to)
	if err != nil {
		return fmt.Errorf("digest: list upcoming: %w", err)
	}
	if len(bookings) == 0 {
		s.logger.Info("digest: no upcoming charters", zap.Stringer("from", from), zap.Stringer("to", to))
		return nil
	}
	if err := s.sender.SendDigest(ctx, bookings, from, to); err != nil {
		return fmt.Errorf("digest: send: %w", err)
	}
	s.logger.Info("digest sent", zap.Int("charters", len(bookings)))
	return nil
}

// Schedule registers the digest on a cron running in the clock's location.
// The caller starts and stops the returned cron.
func (s *JobService) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(s.clock.Location()))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := s.SendUpcomingDigest(ctx); err != nil {
			s.logger.Error("digest job failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule digest %q: %w", spec, err)
	}
	return c, nil
}
