package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records fact table builds and refreshes.
type PipelineMetrics struct {
	duration *prometheus.HistogramVec
	rows     prometheus.Gauge
	dropped  *prometheus.GaugeVec
	refresh  *prometheus.CounterVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_build_duration_seconds",
		Help:    "Duration of fact table loads in seconds, by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	rows := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pipeline_fact_rows",
		Help: "Rows in the currently published fact table.",
	})
	dropped := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pipeline_dropped_records",
		Help: "Raw records dropped by the last build, by reason.",
	}, []string{"reason"})
	refresh := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_refresh_total",
		Help: "Fact table load attempts, by result (rebuilt, unchanged, failed).",
	}, []string{"result"})
	reg.MustRegister(duration, rows, dropped, refresh)
	return &PipelineMetrics{
		duration: duration,
		rows:     rows,
		dropped:  dropped,
		refresh:  refresh,
	}
}

// ObserveLoad records one load attempt.
func (p *PipelineMetrics) ObserveLoad(result string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	outcome := "success"
	if result == "failed" {
		outcome = "failure"
	}
	p.duration.WithLabelValues(outcome).Observe(duration.Seconds())
	p.refresh.WithLabelValues(normalizeLabel(result)).Inc()
}

// SetRows publishes the row count of the current fact table.
func (p *PipelineMetrics) SetRows(n int) {
	if p == nil || p.rows == nil {
		return
	}
	p.rows.Set(float64(n))
}

// SetDropped publishes how many records the last build dropped for reason.
func (p *PipelineMetrics) SetDropped(reason string, n int) {
	if p == nil || p.dropped == nil {
		return
	}
	p.dropped.WithLabelValues(normalizeLabel(reason)).Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
