package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus instruments TieredStorage reports against.
// Names match SPEC_FULL §4.7/§6; all are registered against a dedicated
// registry rather than the global default so multiple TieredStorage
// instances (e.g. in tests) don't collide.
type Metrics struct {
	Registry *prometheus.Registry

	CacheHits              prometheus.Counter
	CacheMisses            prometheus.Counter
	Promotions             prometheus.Counter
	PrefetchPatternsLoaded prometheus.Counter
	TierPatternCount       *prometheus.GaugeVec
}

// NewMetrics constructs and registers a fresh Metrics set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patterndb_cache_hits_total",
			Help: "Number of TieredStorage reads served from the LRU cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patterndb_cache_misses_total",
			Help: "Number of TieredStorage reads not served from the LRU cache.",
		}),
		Promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patterndb_promotions_total",
			Help: "Number of patterns automatically promoted to a higher tier.",
		}),
		PrefetchPatternsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "patterndb_prefetch_patterns_loaded_total",
			Help: "Number of patterns pulled into cache by association prefetching.",
		}),
		TierPatternCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "patterndb_tier_pattern_count",
			Help: "Number of patterns currently resident in each tier.",
		}, []string{"tier"}),
	}

	registry.MustRegister(m.CacheHits, m.CacheMisses, m.Promotions, m.PrefetchPatternsLoaded, m.TierPatternCount)
	return m
}
