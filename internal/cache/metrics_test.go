package cache

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorExposesSnapshot(t *testing.T) {
	c := New[int](Options{MaxEntries: 4})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")       // hit
	c.Get("missing") // miss

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollector(c, "testapp")))

	expected := `
# HELP testapp_cache_entries Current number of live entries in the cache.
# TYPE testapp_cache_entries gauge
testapp_cache_entries 2
# HELP testapp_cache_hits_total Total number of cache lookups served from the cache.
# TYPE testapp_cache_hits_total counter
testapp_cache_hits_total 1
# HELP testapp_cache_max_entries Configured entry bound, 0 meaning unbounded.
# TYPE testapp_cache_max_entries gauge
testapp_cache_max_entries 4
# HELP testapp_cache_misses_total Total number of cache lookups that found no live entry.
# TYPE testapp_cache_misses_total counter
testapp_cache_misses_total 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected)))
}

func TestHitRatio(t *testing.T) {
	c := New[int](Options{})
	defer c.Close()

	require.Zero(t, c.Stats().HitRatio())

	c.Set("k", 1)
	c.Get("k")
	c.Get("k")
	c.Get("gone")

	require.InDelta(t, 2.0/3.0, c.Stats().HitRatio(), 1e-9)
}
