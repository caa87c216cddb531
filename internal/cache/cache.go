package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Options controls default expiry, capacity, and maintenance behavior.
//
// Correctness-first defaults:
//   - TTL <= 0 means "entries never expire unless SetTTL says otherwise"
//   - MaxEntries <= 0 means "unbounded" (no eviction)
//   - CleanupInterval <= 0 disables the janitor; expiry is then checked only
//     when the cache is touched
//   - Logger nil means no logging (zap.NewNop)
//
// Options are read once by New and never consulted again, so mutating an
// Options value after construction has no effect on the cache built from it.
type Options struct {
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
	Logger          *zap.Logger
}

// Cache is a concurrency-safe in-memory key–value cache with per-entry TTL
// and FIFO eviction.
//
// The core design is intentionally explicit and "mechanical":
// a map gives O(1) key lookup, and a doubly-linked list maintains insertion
// ordering for the eviction scan.
//
// Ownership model:
// Cache owns its janitor goroutine (if enabled). Call Close to stop it.
// None of the other operations can fail, and a closed cache still serves
// reads and writes.
type Cache[V any] struct {
	mu sync.RWMutex

	defaultTTL time.Duration
	maxEntries int
	items      map[string]*list.Element
	order      *list.List // Front = earliest insert, Back = latest insert

	// Cumulative counters. Atomic so Stats can read them without taking
	// the write path's lock.
	hits   atomic.Uint64
	misses atomic.Uint64

	log *zap.Logger

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cleanupEvery time.Duration
	closeOnce    sync.Once
}

// entry is the value stored in the order-list elements.
// We keep the key here because eviction starts from list nodes.
//
// A zero expiresAt means "never expires".
type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// New constructs a cache and starts the janitor (if enabled).
//
// New never returns a nil Cache.
func New[V any](opts Options) *Cache[V] {
	ctx, cancel := context.WithCancel(context.Background())

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	defaultTTL := opts.TTL
	if defaultTTL < 0 {
		defaultTTL = 0
	}

	c := &Cache[V]{
		defaultTTL:   defaultTTL,
		maxEntries:   opts.MaxEntries,
		items:        make(map[string]*list.Element),
		order:        list.New(),
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
		cleanupEvery: opts.CleanupInterval,
	}

	if c.cleanupEvery > 0 {
		c.wg.Add(1)
		go c.janitor()
	}

	return c
}

// Close stops the janitor goroutine. It is safe to call multiple times and
// does not disable the cache: reads and writes keep working afterwards,
// falling back to purely lazy expiration.
func (c *Cache[V]) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		c.wg.Wait()
	})
	return nil
}

// Set writes/overwrites a key using the cache-level default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.set(key, value, c.defaultTTL)
}

// SetTTL writes/overwrites a key with an explicit per-call TTL, which wins
// over the cache-level default.
//
// ttl semantics:
//   - ttl <= 0 means "expires immediately": the entry is stored but every
//     subsequent access treats it as absent
//
// Overwriting an existing key keeps its original insertion position and
// never triggers eviction.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		// Degrade malformed TTLs to an already-passed deadline rather
		// than failing; the next sweep removes the entry.
		ttl = -1
	}
	c.set(key, value, ttl)
}

func (c *Cache[V]) set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.sweepLocked(now)

	var expiresAt time.Time
	if ttl != 0 {
		expiresAt = now.Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		return
	}

	// Eviction only fires for a new, distinct key once the sweep has
	// reclaimed everything expired and the map is still at capacity.
	c.evictIfFullLocked()

	el := c.order.PushBack(&entry[V]{
		key:       key,
		value:     value,
		expiresAt: expiresAt,
	})
	c.items[key] = el
}

// Get reads a key, counting the access as a hit or miss.
//
// It sweeps expired entries first, then re-checks the looked-up entry
// individually: an entry can cross its deadline between the sweep's
// timestamp and the lookup, and must still read as absent.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.sweepLocked(now)

	el, ok := c.items[key]
	if !ok {
		c.misses.Inc()
		var zero V
		return zero, false
	}

	e := el.Value.(*entry[V])
	if e.expired(time.Now()) {
		c.removeLocked(el)
		c.misses.Inc()
		var zero V
		return zero, false
	}

	c.hits.Inc()
	return e.value, true
}

// Has reports whether a live entry exists for key.
// Unlike Get it does not touch the hit/miss counters.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(time.Now())
	_, ok := c.items[key]
	return ok
}

// Delete removes a key if present and reports whether it did.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeLocked(el)
	return true
}

// Clear removes all entries. The cumulative hit/miss counters survive; only
// the resident entries and the size they account for are reset.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of live entries after a sweep.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sweepLocked(time.Now())
	return len(c.items)
}

// Keys returns keys in insertion order, earliest first.
//
// This is a debug/demo helper; it does not sweep, so keys expired but not
// yet reclaimed may still appear.
func (c *Cache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*entry[V]).key)
	}
	return out
}

func (c *Cache[V]) evictIfFullLocked() {
	if c.maxEntries <= 0 || len(c.items) < c.maxEntries {
		return
	}

	// FIFO: the earliest-inserted live entry goes. The sweep has already
	// removed expired entries, so the front of the list is live.
	el := c.order.Front()
	if el == nil {
		return
	}
	e := el.Value.(*entry[V])
	c.removeLocked(el)
	c.log.Debug("evicted entry", zap.String("key", e.key))
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	e := el.Value.(*entry[V])
	delete(c.items, e.key)
	c.order.Remove(el)
}

// sweepLocked removes all expired keys.
//
// This is O(n) and intentionally simple. More complex designs can track
// expirations in a min-heap or timing wheel, but that trades simplicity for
// performance.
func (c *Cache[V]) sweepLocked(now time.Time) int {
	removed := 0
	var next *list.Element
	for el := c.order.Front(); el != nil; el = next {
		next = el.Next()
		if el.Value.(*entry[V]).expired(now) {
			c.removeLocked(el)
			removed++
		}
	}
	return removed
}
