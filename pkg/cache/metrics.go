package cache

import (
	"github.com/Sternrassler/ksa-population/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// factory registers cache metrics in the shared registry.
var factory = promauto.With(metrics.Registry)

var (
	// CacheHits tracks cache hits
	CacheHits = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "tesseract_cache_hits_total",
			Help: "Total number of tesseract response cache hits",
		},
	)

	// CacheMisses tracks cache misses, expired entries included
	CacheMisses = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "tesseract_cache_misses_total",
			Help: "Total number of tesseract response cache misses",
		},
	)

	// CacheSize tracks bytes written to the cache
	CacheSize = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "tesseract_cache_size_bytes",
			Help: "Bytes of tesseract responses written to the cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tesseract_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
