package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"memocache/internal/cache"
	"memocache/internal/memo"
)

// rootCmd walks through the library's behavior: FIFO eviction, TTL expiry
// with background cleanup, stats, and memoization.
var rootCmd = &cobra.Command{
	Use:   "memocache",
	Short: "Demo of the memocache TTL/FIFO cache and memoization wrappers",
	Long: `memocache demonstrates an in-process cache with per-entry TTL,
FIFO eviction at a configured capacity, hit/miss statistics, and
memoization wrappers that cache function results by argument.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().Int("max-entries", 2, "entry bound for the demo cache (0 = unbounded)")
	rootCmd.Flags().Duration("ttl", 200*time.Millisecond, "TTL used by the expiry demo")
	rootCmd.Flags().Duration("cleanup-interval", 100*time.Millisecond, "janitor interval (0 = lazy expiry only)")
	rootCmd.Flags().Bool("verbose", false, "enable debug logging")

	viper.SetEnvPrefix("MEMOCACHE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(rootCmd.Flags())
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(viper.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Signal-aware context is the root of ownership for long-lived
	// background work. When SIGINT/SIGTERM arrives, ctx is canceled and we
	// initiate a clean shutdown.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	maxEntries := viper.GetInt("max-entries")
	ttl := viper.GetDuration("ttl")
	cleanupEvery := viper.GetDuration("cleanup-interval")

	c := cache.New[string](cache.Options{
		MaxEntries:      maxEntries,
		CleanupInterval: cleanupEvery,
		Logger:          logger,
	})
	defer func() {
		// Close is idempotent; safe to call in defer.
		_ = c.Close()
	}()

	logger.Info("memocache demo starting",
		zap.Int("max_entries", maxEntries),
		zap.Duration("ttl", ttl),
		zap.Duration("cleanup_interval", cleanupEvery),
	)

	// -------------------------------------------------------------------
	// 1) FIFO eviction demo (capacity from --max-entries)
	// -------------------------------------------------------------------
	c.Set("a", "A")
	c.Set("b", "B")

	// Touch "a". Unlike LRU, this does NOT save it from eviction.
	if v, ok := c.Get("a"); ok {
		logger.Info("GET a", zap.String("value", v))
	}

	// Insert "c" => cache overflows and evicts the earliest insert ("a").
	c.Set("c", "C")
	if !c.Has("a") {
		logger.Info("GET a: missing (evicted as earliest insert, despite the recent touch)")
	}
	logger.Info("keys after eviction (oldest first)", zap.Strings("keys", c.Keys()))

	// -------------------------------------------------------------------
	// 2) TTL expiration demo (shows the janitor)
	// -------------------------------------------------------------------
	// Add a short-lived key. We intentionally do NOT call Get() after it
	// expires; the janitor should remove it during a periodic sweep.
	c.SetTTL("ttl", "short", ttl)
	logger.Info("keys after ttl set (oldest first)", zap.Strings("keys", c.Keys()))

	wait := time.NewTimer(ttl + 3*cleanupEvery)
	defer wait.Stop()
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
		return nil
	case <-wait.C:
	}

	logger.Info("keys after ttl + cleanup (oldest first)", zap.Strings("keys", c.Keys()))
	if _, ok := c.Get("ttl"); !ok {
		logger.Info("GET ttl: missing (expired and removed)")
	}

	stats := c.Stats()
	logger.Info("cache stats",
		zap.Uint64("hits", stats.Hits),
		zap.Uint64("misses", stats.Misses),
		zap.Int("size", stats.Size),
		zap.Float64("hit_ratio", stats.HitRatio()),
	)

	// -------------------------------------------------------------------
	// 3) Memoization demo
	// -------------------------------------------------------------------
	slowSquare := memo.Memoize(func(n int) int {
		logger.Info("computing square", zap.Int("n", n))
		time.Sleep(50 * time.Millisecond)
		return n * n
	}, memo.WithLogger(logger))

	for _, n := range []int{12, 12, 12} {
		start := time.Now()
		v := slowSquare(n)
		logger.Info("square", zap.Int("n", n), zap.Int("result", v),
			zap.Duration("took", time.Since(start)))
	}

	fmt.Println("Done.")
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
