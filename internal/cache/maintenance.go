package cache

import (
	"time"

	"go.uber.org/zap"
)

// janitor periodically sweeps expired entries.
//
// Why a ticker-based full scan?
//   - It's easy to reason about (correctness-first)
//   - It avoids per-entry goroutines/timers (which are expensive and hard to own)
//   - Lazy expiration alone can leave write-once keys in memory indefinitely
//
// The janitor only runs when Options.CleanupInterval is positive; the base
// contract without it is purely lazy, touch-time expiry.
func (c *Cache[V]) janitor() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case now := <-ticker.C:
			c.mu.Lock()
			removed := c.sweepLocked(now)
			c.mu.Unlock()
			if removed > 0 {
				c.log.Debug("janitor sweep", zap.Int("removed", removed))
			}
		}
	}
}
