package memo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"memocache/internal/cache"
)

// Option configures a memoized wrapper.
type Option func(*config)

type config struct {
	ttl        time.Duration
	maxEntries int
	keyFn      func(any) string
	logger     *zap.Logger
	coalesce   bool
}

// WithTTL bounds how long a cached result stays valid.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// WithMaxEntries bounds how many distinct argument keys are retained.
// The earliest-cached key is dropped first (the cache's FIFO policy).
func WithMaxEntries(n int) Option {
	return func(c *config) { c.maxEntries = n }
}

// WithKeyFunc replaces the default argument serialization.
func WithKeyFunc(fn func(arg any) string) Option {
	return func(c *config) { c.keyFn = fn }
}

// WithLogger attaches a logger to the wrapper's private cache.
func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.logger = log }
}

// WithCoalescing deduplicates overlapping MemoizeCtx calls for the same key
// so only one underlying computation runs. Off by default: the base contract
// lets concurrent same-key calls each invoke the wrapped function.
// It has no effect on the synchronous Memoize.
func WithCoalescing() Option {
	return func(c *config) { c.coalesce = true }
}

// Key returns the canonical JSON encoding of an argument tuple, the default
// cache key for memoized functions. encoding/json emits map keys in sorted
// order, so structurally equal arguments produce equal keys.
//
// Values json cannot encode fall back to fmt's %+v representation. That keeps
// Key total, at the cost of weaker equality for such arguments; it is a
// documented limitation, not a crash path.
func Key(args ...any) string {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%+v", args)
	}
	return string(b)
}

func newConfig(opts []Option) config {
	cfg := config{
		keyFn: func(arg any) string { return Key(arg) },
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Memoize wraps a pure function of one argument so repeated calls with an
// equal argument reuse the cached result.
//
// Functions of several arguments memoize by passing an argument struct, or
// by currying through a custom WithKeyFunc. A panic inside fn propagates and
// caches nothing.
func Memoize[A, V any](fn func(A) V, opts ...Option) func(A) V {
	cfg := newConfig(opts)
	store := cache.New[V](cache.Options{
		TTL:        cfg.ttl,
		MaxEntries: cfg.maxEntries,
		Logger:     cfg.logger,
	})

	return func(arg A) V {
		key := cfg.keyFn(arg)
		if v, ok := store.Get(key); ok {
			return v
		}
		v := fn(arg)
		store.Set(key, v)
		return v
	}
}

// MemoizeCtx wraps a fallible, context-aware function. Only successful
// results are cached: an error propagates unchanged and leaves the cache
// untouched for that key, so the next call retries fn.
//
// Between the miss and fn's completion the cache is unlocked; without
// WithCoalescing, concurrent calls for the same key may each invoke fn and
// the last completion wins the cache slot.
func MemoizeCtx[A, V any](fn func(context.Context, A) (V, error), opts ...Option) func(context.Context, A) (V, error) {
	cfg := newConfig(opts)
	store := cache.New[V](cache.Options{
		TTL:        cfg.ttl,
		MaxEntries: cfg.maxEntries,
		Logger:     cfg.logger,
	})

	var flight singleflight.Group

	return func(ctx context.Context, arg A) (V, error) {
		key := cfg.keyFn(arg)
		if v, ok := store.Get(key); ok {
			return v, nil
		}

		if !cfg.coalesce {
			v, err := fn(ctx, arg)
			if err != nil {
				var zero V
				return zero, err
			}
			store.Set(key, v)
			return v, nil
		}

		// Coalesced path: one computation per in-flight key. Errors are
		// shared with the waiters of this flight but never cached.
		res, err, _ := flight.Do(key, func() (any, error) {
			v, err := fn(ctx, arg)
			if err != nil {
				return nil, err
			}
			store.Set(key, v)
			return v, nil
		})
		if err != nil {
			var zero V
			return zero, err
		}
		return res.(V), nil
	}
}
