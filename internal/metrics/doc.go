// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements comprehensive application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Database query performance
  - Sync operation statistics
  - Circuit breaker state transitions
  - Cache hit/miss rates
  - WebSocket connection counts

Within this module only the API request metrics (recorded by
middleware.PrometheusMetrics) and the circuit breaker metrics (recorded by
internal/external) are updated; the other collectors are registered but
nothing in the module records into them.

# Metrics Endpoint

Every collector is registered with the default Prometheus registry through
promauto at package initialization. The package serves no HTTP endpoint
itself, and cmd/server mounts no /metrics route; promhttp.Handler() on a
route exposes the default registry in Prometheus text format.

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
    Buckets: .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate-limited requests (counter)
    Labels: endpoint

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Connection pool size (gauge)

Sync Metrics:
  - sync_duration_seconds: Sync operation duration (histogram)
    Buckets: 1, 5, 10, 30, 60, 120, 300, 600
  - sync_records_processed_total: Records processed (counter)
  - sync_errors_total: Failed syncs (counter)
    Labels: error_type (tautulli_api, database, geolocation, other, unknown)
  - sync_last_success_timestamp: Unix timestamp of last successful sync (gauge)
  - sync_batch_size: Records per sync batch (histogram)

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests through a breaker (counter)
    Labels: name, result (success, failure, rejected)
  - circuit_breaker_consecutive_failures: Current failure streak (gauge)
    Labels: name
  - circuit_breaker_state_transitions_total: State changes (counter)
    Labels: name, from_state, to_state

Cache Metrics:
  - cache_hits_total: Cache hits (counter)
    Labels: cache_type
  - cache_misses_total: Cache misses (counter)
    Labels: cache_type
  - cache_evictions_total: Cache evictions (counter)
    Labels: cache_type
  - cache_entries: Current number of entries (gauge)
    Labels: cache_type

WebSocket Metrics:
  - websocket_connections: Active connections (gauge)
  - websocket_messages_sent_total: Messages sent (counter)
  - websocket_messages_received_total: Messages received (counter)
  - websocket_errors_total: WebSocket errors (counter)
    Labels: error_type

The package also registers tile_*, geolocation_*, dlq_*, nats_*, wrapped_*
and pat_* collectors, duckdb_spatial_operations_total, app_info and
app_uptime_seconds.

# Usage Example

Exposing and recording metrics:

	import (
	    "github.com/owntone/go-libretune-server/internal/metrics"
	    "github.com/prometheus/client_golang/prometheus/promhttp"
	)

	func main() {
	    // Collectors are registered at package init; expose the default registry
	    http.Handle("/metrics", promhttp.Handler())

	    // Record metrics
	    metrics.RecordAPIRequest("GET", "/databases", "200", 23*time.Millisecond)
	    metrics.RecordDBQuery("select", "items", 5*time.Millisecond, nil)
	    metrics.RecordSyncOperation(32500*time.Millisecond, 1500, nil)
	}

Recording HTTP metrics with middleware (middleware.PrometheusMetrics does
this):

	func MetricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	    return func(w http.ResponseWriter, r *http.Request) {
	        metrics.TrackActiveRequest(true)
	        defer metrics.TrackActiveRequest(false)
	        start := time.Now()

	        // Wrap ResponseWriter to capture status code
	        rw := &responseWriter{ResponseWriter: w, statusCode: 200}

	        next(rw, r)

	        // Record metrics
	        metrics.RecordAPIRequest(r.Method, r.URL.Path, strconv.Itoa(rw.statusCode), time.Since(start))
	    }
	}

Recording database query metrics (a non-nil err also increments
duckdb_query_errors_total):

	func (db *Database) Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error) {
	    start := time.Now()
	    rows, err := db.conn.QueryContext(ctx, sql, args...)
	    metrics.RecordDBQuery("select", "items", time.Since(start), err)
	    return rows, err
	}

# Prometheus Configuration

Example prometheus.yml configuration, for a server with a /metrics handler
mounted on the default library port:

	scrape_configs:
	  - job_name: 'libretune'
	    static_configs:
	      - targets: ['localhost:3689']
	    metrics_path: '/metrics'
	    scrape_interval: 15s

# Grafana Dashboards

The metrics support Grafana dashboards with panels for:

  - Request rate (queries per second)
  - Request latency (p50, p95, p99 percentiles)
  - Error rate (errors per second by endpoint)
  - Database query performance (duration distribution)
  - Sync operation statistics (records/sec, duration trends)
  - Circuit breaker state visualization
  - Cache hit rate and efficiency

Example PromQL queries:

	# HTTP request rate
	rate(api_requests_total[5m])

	# HTTP p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Database query rate
	rate(duckdb_query_duration_seconds_count[5m])

	# Cache hit rate
	sum(rate(cache_hits_total[5m])) / (sum(rate(cache_hits_total[5m])) + sum(rate(cache_misses_total[5m])))

	# Sync records per minute
	rate(sync_records_processed_total[1m]) * 60

# Performance Impact

Metrics collection overhead:
  - Counter increment: ~100ns per operation
  - Histogram observation: ~500ns per operation
  - Memory overhead: ~5KB per metric time series
  - Total overhead: <1% CPU, <10MB RAM for typical workloads

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

How label values are formed:

  - Endpoint labels are the request's URL path (no query parameters)
  - status_code is the exact status code, not a class (2xx, 4xx, ...)
  - sync_errors_total's error_type is one of a fixed set of categories;
    duckdb_query_errors_total's error_type is the first 50 bytes of the
    error message
  - User-specific labels are avoided

Series per metric:
  - api_requests_total: one per (method, path, status code) seen
  - duckdb_query_duration_seconds: one histogram per (operation, table) pair
  - circuit_breaker_state: one per breaker (the state is the gauge's value)

# Alerting Rules

Example Prometheus alerting rules:

	groups:
	  - name: libretune
	    rules:
	      - alert: HighErrorRate
	        expr: |
	          sum(rate(api_requests_total{status_code=~"5.."}[5m]))
	          /
	          sum(rate(api_requests_total[5m]))
	          > 0.05
	        for: 5m
	        annotations:
	          summary: "High error rate: {{ $value }}%"

	      - alert: SlowDatabaseQueries
	        expr: |
	          histogram_quantile(0.95,
	            rate(duckdb_query_duration_seconds_bucket[5m]))
	          > 1
	        for: 5m
	        annotations:
	          summary: "p95 query latency: {{ $value }}s"

	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state == 2
	        for: 2m
	        annotations:
	          summary: "Circuit breaker open for {{ $labels.name }}"

# Debugging

With a /metrics handler mounted on the default library port:

	# View all registered metrics
	curl http://localhost:3689/metrics | grep "# HELP"

	# Check specific metric
	curl http://localhost:3689/metrics | grep api_requests_total

	# Validate Prometheus format
	curl -s http://localhost:3689/metrics | promtool check metrics

# Best Practices

When adding new metrics:

 1. Use appropriate metric types:
    - Counter: Monotonically increasing values (requests, errors)
    - Gauge: Point-in-time values (connections, queue size)
    - Histogram: Distribution of values (latency, size)

 2. Choose descriptive names:
    - Use underscore separation: api_request_duration_seconds
    - Include units: _seconds, _bytes, _total
    - Follow Prometheus naming conventions

 3. Add helpful documentation:
    - Include HELP text describing the metric
    - Document all label dimensions
    - Specify units in metric name

 4. Minimize cardinality:
    - Avoid high-cardinality labels (user IDs, timestamps)
    - Normalize endpoint paths
    - Use fixed error type constants

 5. Test performance impact:
    - Benchmark metric recording overhead
    - Monitor memory usage with many time series
    - Validate scrape duration <1s

# See Also

  - internal/middleware: HTTP middleware with metrics integration
  - internal/external: circuit breaker metrics recording
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
  - https://prometheus.io/docs/practices/instrumentation/: Instrumentation guide
*/
package metrics
