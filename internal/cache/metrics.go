package cache

import "github.com/prometheus/client_golang/prometheus"

// Collector exposes a cache's counters to Prometheus.
//
// It is pull-based: each scrape takes a Stats snapshot, so registering a
// collector adds no bookkeeping to the cache's hot path. Register it with
// any prometheus.Registerer:
//
//	reg.MustRegister(cache.NewCollector(c, "memocache"))
type Collector[V any] struct {
	cache *Cache[V]

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	size       *prometheus.Desc
	maxEntries *prometheus.Desc
}

// NewCollector builds a collector for c under the given metric namespace.
func NewCollector[V any](c *Cache[V], namespace string) *Collector[V] {
	return &Collector[V]{
		cache: c,
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "hits_total"),
			"Total number of cache lookups served from the cache.",
			nil, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "misses_total"),
			"Total number of cache lookups that found no live entry.",
			nil, nil,
		),
		size: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "entries"),
			"Current number of live entries in the cache.",
			nil, nil,
		),
		maxEntries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cache", "max_entries"),
			"Configured entry bound, 0 meaning unbounded.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (col *Collector[V]) Describe(ch chan<- *prometheus.Desc) {
	ch <- col.hits
	ch <- col.misses
	ch <- col.size
	ch <- col.maxEntries
}

// Collect implements prometheus.Collector.
func (col *Collector[V]) Collect(ch chan<- prometheus.Metric) {
	s := col.cache.Stats()
	ch <- prometheus.MustNewConstMetric(col.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(col.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(col.size, prometheus.GaugeValue, float64(s.Size))
	ch <- prometheus.MustNewConstMetric(col.maxEntries, prometheus.GaugeValue, float64(s.MaxEntries))
}
