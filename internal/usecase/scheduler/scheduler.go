// Package scheduler drives match generation and cleanup on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/domain"
	"github.com/gdugdh24/party-match-backend/internal/repository"
	"github.com/google/uuid"
)

const (
	DefaultInterval  = time.Minute
	DefaultRetention = 24 * time.Hour

	tickLockKey = "party-match:scheduler:tick"
)

type MatchGenerator interface {
	GenerateMatches(ctx context.Context, eventID uuid.UUID) ([]*domain.Pairing, error)
}

type ExpiredEventCleaner interface {
	DeleteExpiredEvents(ctx context.Context, retention time.Duration) (int64, error)
}

// Locker guards a tick across processes. Acquire reports false when another
// holder owns key; release must be called once the tick is done.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), acquired bool, err error)
}

// TickerFunc starts a ticker firing every d and returns its channel and stop func.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Report summarises one tick.
type Report struct {
	Skipped         bool
	EventsDue       int
	EventsFailed    int
	PairingsCreated int
	EventsDeleted   int64
}

type Scheduler struct {
	eventRepo repository.EventRepository
	generator MatchGenerator
	cleaner   ExpiredEventCleaner
	clock     clock.Clock
	logger    *slog.Logger

	interval  time.Duration
	retention time.Duration
	locker    Locker
	ticker    TickerFunc

	running sync.Mutex
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithRetention(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithLocker makes each tick take a lock shared by every instance.
func WithLocker(l Locker) Option {
	return func(s *Scheduler) { s.locker = l }
}

func WithTicker(fn TickerFunc) Option {
	return func(s *Scheduler) { s.ticker = fn }
}

func New(
	eventRepo repository.EventRepository,
	generator MatchGenerator,
	cleaner ExpiredEventCleaner,
	clk clock.Clock,
	logger *slog.Logger,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		eventRepo: eventRepo,
		generator: generator,
		cleaner:   cleaner,
		clock:     clk,
		logger:    logger,
		interval:  DefaultInterval,
		retention: DefaultRetention,
		ticker:    realTicker,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ticks once immediately and then on every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "retention", s.retention)

	s.Tick(ctx)

	ticks, stop := s.ticker(s.interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticks:
			s.Tick(ctx)
		}
	}
}

// Tick runs matching for every due event and then cleanup. A tick that starts
// while another is still running on this scheduler, or while another instance
// holds the shared lock, is skipped.
func (s *Scheduler) Tick(ctx context.Context) Report {
	if !s.running.TryLock() {
		s.logger.Warn("previous tick still running, skipping")
		return Report{Skipped: true}
	}
	defer s.running.Unlock()

	if s.locker != nil {
		release, acquired, err := s.locker.Acquire(ctx, tickLockKey, s.interval)
		if err != nil {
			s.logger.Error("failed to acquire tick lock", "error", err)
			return Report{Skipped: true}
		}
		if !acquired {
			s.logger.Debug("tick lock held by another instance, skipping")
			return Report{Skipped: true}
		}
		defer release()
	}

	var report Report
	s.runMatching(ctx, &report)
	s.runCleanup(ctx, &report)
	return report
}

func (s *Scheduler) runMatching(ctx context.Context, report *Report) {
	events, err := s.eventRepo.ListDueForMatching(ctx, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to list events due for matching", "error", err)
		return
	}
	report.EventsDue = len(events)

	for _, event := range events {
		if ctx.Err() != nil {
			return
		}
		created, err := s.generate(ctx, event.ID)
		if err != nil {
			report.EventsFailed++
			s.logger.Error("match generation failed", "event_id", event.ID, "error", err)
			continue
		}
		report.PairingsCreated += len(created)
	}
}

// generate turns a panic in one event's run into an error so the remaining
// events still run.
func (s *Scheduler) generate(ctx context.Context, eventID uuid.UUID) (created []*domain.Pairing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("match generation panicked")
			s.logger.Error("panic during match generation", "event_id", eventID, "panic", r)
		}
	}()
	return s.generator.GenerateMatches(ctx, eventID)
}

func (s *Scheduler) runCleanup(ctx context.Context, report *Report) {
	if ctx.Err() != nil {
		return
	}
	deleted, err := s.cleaner.DeleteExpiredEvents(ctx, s.retention)
	if err != nil {
		s.logger.Error("cleanup failed", "error", err)
		return
	}
	report.EventsDeleted = deleted
}
