// Package observability provides metrics and logging setup for the string
// analyzer server.
//
// # Metrics
//
// Metrics are registered on a caller-supplied prometheus.Registerer so
// tests and embedded servers get isolated registries:
//   - stranalyzer_http_requests_total{method,route,status}
//   - stranalyzer_http_request_duration_seconds{method,route}
//   - stranalyzer_nlquery_total{outcome}
//   - stranalyzer_store_records / stranalyzer_store_bytes (sampled on scrape)
//
// A nil *Metrics is valid and records nothing, so call sites need no
// "metrics enabled" checks.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dreamware/stranalyzer/internal/storage"
)

const (
	metricsNamespace = "stranalyzer"
	httpSubsystem    = "http"
	storeSubsystem   = "store"
)

// NLOutcome labels the result of a natural-language query
type NLOutcome string

const (
	NLParsed      NLOutcome = "parsed"
	NLUnparseable NLOutcome = "unparseable"
	NLConflict    NLOutcome = "conflict"
)

// StatsSource is implemented by storage.Store
type StatsSource interface {
	Stats() storage.StoreStats
}

// Metrics holds the server's Prometheus collectors
type Metrics struct {
	// RequestsTotal counts finished requests.
	// Labels: method, route (the matched pattern, "unmatched" otherwise), status
	RequestsTotal *prometheus.CounterVec

	// RequestDuration measures handler latency.
	// Labels: method, route
	RequestDuration *prometheus.HistogramVec

	// NLQueriesTotal counts natural-language queries by outcome.
	// Labels: outcome (parsed, unparseable, conflict)
	NLQueriesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on reg. When store is
// non-nil its record count and byte size are exported as gauges.
//
// Panics if called twice with the same registerer (duplicate registration).
func NewMetrics(reg prometheus.Registerer, store StatsSource) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"method", "route"},
		),
		NLQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "nlquery_total",
				Help:      "Natural-language queries by outcome",
			},
			[]string{"outcome"},
		),
	}

	if store != nil {
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "records",
				Help:      "Number of strings currently stored",
			},
			func() float64 { return float64(store.Stats().Records) },
		)
		factory.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: storeSubsystem,
				Name:      "bytes",
				Help:      "Total UTF-8 size of stored strings in bytes",
			},
			func() float64 { return float64(store.Stats().Bytes) },
		)
	}

	return m
}

// RecordRequest records one finished HTTP request
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordNLQuery records the outcome of one natural-language query
func (m *Metrics) RecordNLQuery(outcome NLOutcome) {
	if m == nil {
		return
	}
	m.NLQueriesTotal.WithLabelValues(string(outcome)).Inc()
}
