package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QueryMetrics records dashboard query latency and result cache usage.
type QueryMetrics struct {
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_query_duration_seconds",
		Help:    "Duration of dashboard queries in seconds.",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"operation", "dimension"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_requests_total",
		Help: "Result cache lookups, by outcome (hit, miss, error).",
	}, []string{"outcome"})
	reg.MustRegister(duration, cache)
	return &QueryMetrics{duration: duration, cache: cache}
}

func (q *QueryMetrics) ObserveQuery(operation, dimension string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(operation), normalizeLabel(dimension)).Observe(duration.Seconds())
}

func (q *QueryMetrics) IncCache(outcome string) {
	if q == nil || q.cache == nil {
		return
	}
	q.cache.WithLabelValues(normalizeLabel(outcome)).Inc()
}
