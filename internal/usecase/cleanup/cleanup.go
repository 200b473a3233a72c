// Package cleanup removes parties that are long over.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdugdh24/party-match-backend/internal/clock"
	"github.com/gdugdh24/party-match-backend/internal/repository"
)

type Cleaner struct {
	eventRepo repository.EventRepository
	clock     clock.Clock
	logger    *slog.Logger
}

func NewCleaner(eventRepo repository.EventRepository, clk clock.Clock, logger *slog.Logger) *Cleaner {
	return &Cleaner{eventRepo: eventRepo, clock: clk, logger: logger}
}

// DeleteExpiredEvents deletes every event that started more than retention
// ago, together with its enrollments and pairings.
func (c *Cleaner) DeleteExpiredEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := c.clock.Now().Add(-retention)
	deleted, err := c.eventRepo.DeleteStartedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete events started before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if deleted > 0 {
		c.logger.Info("expired events deleted", "count", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}
