package cache

import "time"

// Stats is a point-in-time snapshot of cache counters.
//
// Hits and Misses are cumulative for the lifetime of the cache: Clear does
// not reset them. Size is the live entry count at snapshot time. MaxEntries
// echoes the configured bound, 0 meaning unbounded.
//
// The snapshot is a plain value copy; callers cannot reach internal state
// through it.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Size       int
	MaxEntries int
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats returns a snapshot of the counters.
//
// Size reflects the entries currently resident; it sweeps first so expired
// entries are never counted.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	c.sweepLocked(time.Now())
	size := len(c.items)
	c.mu.Unlock()

	return Stats{
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Size:       size,
		MaxEntries: c.maxEntries,
	}
}
