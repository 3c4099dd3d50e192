package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPipelineMetricsExportsCountersAndGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)
	m.ObserveLoad("rebuilt", 250*time.Millisecond)
	m.ObserveLoad("unchanged", 10*time.Millisecond)
	m.ObserveLoad("failed", 5*time.Millisecond)
	m.SetRows(42)
	m.SetDropped("excluded_status", 3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for _, result := range []string{"rebuilt", "unchanged", "failed"} {
		got, err := fetchValue(mfs, "pipeline_refresh_total", "result", result)
		if err != nil {
			t.Fatalf("fetch %s: %v", result, err)
		}
		if got != 1 {
			t.Fatalf("expected %s=1, got %f", result, got)
		}
	}

	if got, err := fetchValue(mfs, "pipeline_dropped_records", "reason", "excluded_status"); err != nil {
		t.Fatalf("fetch dropped: %v", err)
	} else if got != 3 {
		t.Fatalf("expected dropped=3, got %f", got)
	}

	rows := findMetricFamily(mfs, "pipeline_fact_rows")
	if rows == nil || rows.GetMetric()[0].GetGauge().GetValue() != 42 {
		t.Fatalf("expected fact rows gauge 42, got %v", rows)
	}

	if got, err := fetchHistogramSum(mfs, "pipeline_build_duration_seconds", "outcome", "success"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestQueryMetricsCacheCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewQueryMetrics(reg)
	m.IncCache("hit")
	m.IncCache("hit")
	m.IncCache("miss")
	m.ObserveQuery("demand", "category", time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchValue(mfs, "dashboard_cache_requests_total", "outcome", "hit"); err != nil || got != 2 {
		t.Fatalf("expected hit=2, got %f err=%v", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "dashboard_query_duration_seconds", "operation", "demand"); err != nil || got <= 0 {
		t.Fatalf("expected demand duration recorded, got %f err=%v", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	var p *PipelineMetrics
	p.SetRows(1)
	NewPipelineMetrics(nil).ObserveLoad("rebuilt", time.Second)
	NewQueryMetrics(nil).IncCache("hit")
}

func fetchValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			if metric.GetCounter() != nil {
				return metric.GetCounter().GetValue(), nil
			}
			return metric.GetGauge().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}

func TestHTTPMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("GET", "/api/v1/dashboard/values/{dimension}", 200, time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/dashboard/values/{dimension}", 200, time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchValue(mfs, "http_requests_total", "route", "/api/v1/dashboard/values/{dimension}"); err != nil {
		t.Fatalf("fetch route: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 requests, got %f", got)
	}
	if got, err := fetchValue(mfs, "http_requests_total", "route", "unknown"); err != nil {
		t.Fatalf("fetch unknown route: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 unknown request, got %f", got)
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
	NewHTTPMetrics(nil).ObserveRequest("GET", "/", 200, time.Millisecond)
}
