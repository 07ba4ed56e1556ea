// Package metrics documents the Prometheus metrics of the population job and
// pushes them to a Pushgateway at the end of a batch run.
//
// Metrics are defined in the packages that update them (client, cache,
// pipeline) through promauto.With(Registry).
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the registerer all package metrics are created in.
var Registry = prometheus.DefaultRegisterer

// Gatherer is what Push collects from.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// DefaultJob is the Pushgateway job name used by the commands.
const DefaultJob = "ksa_population"

// Push replaces the metrics grouped under job on the Pushgateway at url.
// Used by the batch commands, which exit before they could be scraped.
func Push(ctx context.Context, url, job string) error {
	if url == "" {
		return fmt.Errorf("pushgateway url is required")
	}
	if job == "" {
		job = DefaultJob
	}
	if err := push.New(url, job).Gatherer(Gatherer).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - tesseract_requests_total{cube, status} (Counter): requests by cube and HTTP status ("cached", "network_error")
//   - tesseract_request_duration_seconds{cube} (Histogram): request duration by cube
//   - tesseract_errors_total{class} (Counter): errors by class (network, http_status, malformed)
//
// Cache Metrics (pkg/cache):
//   - tesseract_cache_hits_total (Counter): cached responses served
//   - tesseract_cache_misses_total (Counter): lookups without a usable entry
//   - tesseract_cache_size_bytes (Gauge): bytes written to the cache by this process
//   - tesseract_cache_errors_total{operation} (Counter): Redis errors by operation
//
// Run Metrics (pkg/pipeline):
//   - ksa_population_records_fetched{source} (Gauge): rows fetched per source (national, detailed)
//   - ksa_population_provinces (Gauge): provinces in the last dataset
//   - ksa_population_age_groups (Gauge): age groups in the last dataset
//   - ksa_population_last_success_timestamp_seconds (Gauge): unix time of the last written dataset
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(tesseract_cache_hits_total[5m])) /
//   (sum(rate(tesseract_cache_hits_total[5m])) + sum(rate(tesseract_cache_misses_total[5m])))
//
//   # Stale data alert (no successful run for two days)
//   time() - ksa_population_last_success_timestamp_seconds > 172800
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(tesseract_request_duration_seconds_bucket[5m]))
