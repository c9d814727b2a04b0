package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/terra-clan/travel-catalog/internal/view"
)

// Reaper lists idle views and closes them. view.Registry implements it.
// DeleteIfIdle must recheck idleness so a view touched after Expired survives.
type Reaper interface {
	Expired(ctx context.Context) ([]view.Info, error)
	DeleteIfIdle(ctx context.Context, id string) (bool, error)
}

// Cleaner handles periodic cleanup of idle views
type Cleaner struct {
	reaper   Reaper
	interval time.Duration
}

// NewCleaner creates a new cleanup worker
func NewCleaner(reaper Reaper, interval time.Duration) *Cleaner {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Cleaner{
		reaper:   reaper,
		interval: interval,
	}
}

// Start begins the cleanup worker in a goroutine
func (c *Cleaner) Start(ctx context.Context) {
	go c.run(ctx)
}

// run is the main loop for the cleanup worker
func (c *Cleaner) run(ctx context.Context) {
	slog.Info("cleanup worker started", "interval", c.interval)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			c.cleanup(ctx)
		}
	}
}

// cleanup closes views idle past their expiry and returns how many it closed
func (c *Cleaner) cleanup(ctx context.Context) int {
	slog.Debug("running cleanup cycle")

	expired, err := c.reaper.Expired(ctx)
	if err != nil {
		slog.Error("failed to get expired views", "error", err)
		return 0
	}

	if len(expired) == 0 {
		slog.Debug("no expired views found")
		return 0
	}

	slog.Info("found expired views", "count", len(expired))

	closed := 0
	for _, info := range expired {
		deleted, err := c.reaper.DeleteIfIdle(ctx, info.ID)
		if err != nil {
			slog.Error("failed to close expired view",
				"error", err,
				"id", info.ID,
			)
			continue
		}
		if !deleted {
			slog.Debug("view accessed since listing, kept", "id", info.ID)
			continue
		}

		slog.Info("expired view closed",
			"id", info.ID,
			"catalog", info.Catalog,
			"last_access", info.LastAccess,
		)
		closed++
	}
	return closed
}
