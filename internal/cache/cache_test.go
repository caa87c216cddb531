package cache

import (
	"testing"
	"time"
)

func TestSetThenGetCountsHit(t *testing.T) {
	c := New[int](Options{})
	defer c.Close()

	c.Set("k", 42)

	v, ok := c.Get("k")
	if !ok || v != 42 {
		t.Fatalf("get k = %v, %v; want 42, true", v, ok)
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 0 {
		t.Fatalf("stats = %+v; want hits=1 misses=0", s)
	}
}

func TestGetMissingCountsMiss(t *testing.T) {
	c := New[string](Options{})
	defer c.Close()

	if _, ok := c.Get("never-set"); ok {
		t.Fatalf("expected miss for unset key")
	}

	s := c.Stats()
	if s.Misses != 1 || s.Hits != 0 {
		t.Fatalf("stats = %+v; want hits=0 misses=1", s)
	}
}

func TestFIFOEviction(t *testing.T) {
	c := New[int](Options{MaxEntries: 2})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	// Touching "a" must NOT refresh its eviction priority: this cache is
	// FIFO, not LRU.
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a to exist")
	}

	// Insert "c" => evict the earliest insert, which is still "a".
	c.Set("c", 3)

	if c.Has("a") {
		t.Fatalf("expected a to be evicted (FIFO)")
	}
	if !c.Has("b") {
		t.Fatalf("expected b to remain")
	}
	if !c.Has("c") {
		t.Fatalf("expected c to exist")
	}
}

func TestOverwriteNeverEvicts(t *testing.T) {
	c := New[int](Options{MaxEntries: 2})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	// Overwriting a resident key at capacity must not push anything out,
	// and must keep the key's original insertion slot.
	c.Set("a", 10)

	if got := c.Len(); got != 2 {
		t.Fatalf("len = %d; want 2", got)
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("keys = %v; want [a b]", keys)
	}

	// The next distinct key still evicts "a" first.
	c.Set("c", 3)
	if c.Has("a") {
		t.Fatalf("expected a to be evicted despite the overwrite")
	}
}

func TestExpiredEntriesIgnoredByEviction(t *testing.T) {
	c := New[int](Options{MaxEntries: 2})
	defer c.Close()

	c.SetTTL("dead", 1, 20*time.Millisecond)
	c.Set("live", 2)

	time.Sleep(40 * time.Millisecond)

	// The sweep reclaims "dead" first, so inserting "fresh" needs no
	// eviction and "live" survives.
	c.Set("fresh", 3)

	if !c.Has("live") {
		t.Fatalf("expected live to survive; sweep should have made room")
	}
	if !c.Has("fresh") {
		t.Fatalf("expected fresh to exist")
	}
}

func TestTTL_LazyExpirationOnGet(t *testing.T) {
	c := New[int](Options{})
	defer c.Close()

	c.SetTTL("x", 1, 50*time.Millisecond)

	if v, ok := c.Get("x"); !ok || v != 1 {
		t.Fatalf("expected x to exist before expiry")
	}

	time.Sleep(60 * time.Millisecond)

	if _, ok := c.Get("x"); ok {
		t.Fatalf("expected x to be expired and removed on get")
	}
	if c.Has("x") {
		t.Fatalf("expected has(x) to be false after expiry")
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 {
		t.Fatalf("stats = %+v; want hits=1 misses=1", s)
	}
}

func TestNonPositiveTTLExpiresImmediately(t *testing.T) {
	c := New[int](Options{})
	defer c.Close()

	c.SetTTL("zero", 1, 0)
	c.SetTTL("neg", 2, -time.Second)

	if c.Has("zero") || c.Has("neg") {
		t.Fatalf("expected malformed TTLs to read as already expired")
	}
}

func TestDefaultTTLAppliesToSet(t *testing.T) {
	c := New[int](Options{TTL: 30 * time.Millisecond})
	defer c.Close()

	c.Set("k", 1)

	if !c.Has("k") {
		t.Fatalf("expected k before default TTL elapses")
	}
	time.Sleep(50 * time.Millisecond)
	if c.Has("k") {
		t.Fatalf("expected k to expire via the cache-level default TTL")
	}
}

func TestClearKeepsCumulativeCounters(t *testing.T) {
	c := New[int](Options{})
	defer c.Close()

	c.Set("a", 1)
	c.Get("a")    // hit
	c.Get("nope") // miss
	c.Clear()

	if c.Has("a") {
		t.Fatalf("expected a to be gone after clear")
	}
	s := c.Stats()
	if s.Size != 0 {
		t.Fatalf("size = %d after clear; want 0", s.Size)
	}
	if s.Hits != 1 || s.Misses != 1 {
		t.Fatalf("stats = %+v; clear must not reset cumulative counters", s)
	}
}

func TestDelete(t *testing.T) {
	c := New[int](Options{})
	defer c.Close()

	c.Set("k", 1)
	if !c.Delete("k") {
		t.Fatalf("expected delete of resident key to report true")
	}
	if c.Delete("k") {
		t.Fatalf("expected delete of absent key to report false")
	}
	if got := c.Len(); got != 0 {
		t.Fatalf("len = %d; want 0", got)
	}
}

func TestStatsSnapshotIsDetached(t *testing.T) {
	c := New[int](Options{MaxEntries: 8})
	defer c.Close()

	c.Set("k", 1)
	s := c.Stats()
	s.Hits = 999
	s.Size = 999

	if got := c.Stats(); got.Hits != 0 || got.Size != 1 {
		t.Fatalf("stats = %+v; mutating a snapshot must not reach the cache", got)
	}
}

func TestJanitorRemovesWithoutGet(t *testing.T) {
	c := New[int](Options{CleanupInterval: 10 * time.Millisecond})
	defer c.Close()

	c.SetTTL("ttl", 1, 20*time.Millisecond)

	// Wait until the janitor removes it. Use a deadline to avoid flakes.
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		found := false
		for _, k := range c.Keys() {
			if k == "ttl" {
				found = true
				break
			}
		}
		if !found {
			return // success
		}
		time.Sleep(5 * time.Millisecond)
	}

	// As a fallback check, even if Keys happened to still show it,
	// Get must treat it as expired.
	if _, ok := c.Get("ttl"); ok {
		t.Fatalf("expected ttl to be expired")
	}
}

func TestClose_IdempotentAndCacheStaysUsable(t *testing.T) {
	c := New[int](Options{CleanupInterval: 10 * time.Millisecond})

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close again: %v", err)
	}

	// Close only stops the janitor; lazy expiry and mutation keep working.
	c.SetTTL("k", 1, 20*time.Millisecond)
	if v, ok := c.Get("k"); !ok || v != 1 {
		t.Fatalf("expected closed cache to keep serving writes and reads")
	}
	time.Sleep(40 * time.Millisecond)
	if c.Has("k") {
		t.Fatalf("expected lazy expiry to keep working after close")
	}
}
