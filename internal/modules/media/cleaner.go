package media

import (
	"context"
	"sync"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
)

// Cleaner deletes provider assets in the background. Failures are logged
// and dropped; the caller never waits on the provider.
type Cleaner struct {
	provider Provider
	log      *logger.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewCleaner(provider Provider, log *logger.Logger, timeout time.Duration) *Cleaner {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Cleaner{provider: provider, log: log.WithComponent("media_cleaner"), timeout: timeout}
}

// Schedule deletes publicID asynchronously. An empty id is a no-op.
func (c *Cleaner) Schedule(publicID, reason string) {
	if publicID == "" {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		if err := c.provider.Destroy(ctx, publicID); err != nil {
			c.log.Warn("failed to delete provider asset", "public_id", publicID, "reason", reason, "error", err)
			return
		}
		c.log.Info("provider asset deleted", "public_id", publicID, "reason", reason)
	}()
}

// Wait blocks until every scheduled deletion has finished.
func (c *Cleaner) Wait() { c.wg.Wait() }
