// Package stats keeps slow-moving domain gauges fresh.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/akmatoff/auth-api/internal/metrics"
	"github.com/akmatoff/auth-api/internal/repository"
	"github.com/robfig/cron/v3"
)

// Collector refreshes the registered-users gauge on a fixed schedule, so the
// request path never pays for a COUNT(*).
type Collector struct {
	users  repository.UserRepository
	logger *slog.Logger
	cron   *cron.Cron
}

func NewCollector(users repository.UserRepository, logger *slog.Logger) *Collector {
	return &Collector{
		users:  users,
		logger: logger.With("component", "stats"),
		cron:   cron.New(),
	}
}

// Start refreshes once immediately, then every minute until Stop.
func (c *Collector) Start(ctx context.Context) error {
	c.Refresh(ctx)

	if _, err := c.cron.AddFunc("@every 1m", func() {
		c.Refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule stats refresh: %w", err)
	}
	c.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight refresh to finish.
func (c *Collector) Stop() {
	<-c.cron.Stop().Done()
}

func (c *Collector) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := c.users.Count(ctx)
	if err != nil {
		c.logger.Warn("refresh user count", "error", err)
		return
	}
	metrics.RegisteredUsers.Set(float64(n))
}
