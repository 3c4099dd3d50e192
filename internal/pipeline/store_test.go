package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/angelmondragon/olist-dashboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTestStore(t *testing.T, source dataset.Source, reg prometheus.Registerer) *Store {
	t.Helper()
	store, err := NewStore(StoreParams{
		Source:  source,
		Logger:  testLogger(),
		Metrics: metrics.NewPipelineMetrics(reg),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func gatherValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric, labels) {
				switch {
				case metric.GetCounter() != nil:
					return metric.GetCounter().GetValue()
				case metric.GetGauge() != nil:
					return metric.GetGauge().GetValue()
				case metric.GetHistogram() != nil:
					return float64(metric.GetHistogram().GetSampleCount())
				}
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return 0
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if want != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}

func TestNewStoreRequiresDependencies(t *testing.T) {
	if _, err := NewStore(StoreParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected error without source")
	}
	if _, err := NewStore(StoreParams{Source: &fakeSource{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}

func TestStoreLoadPublishesAndSkipsUnchanged(t *testing.T) {
	reg := prometheus.NewRegistry()
	source := &fakeSource{tables: scenarioA()}
	store := newTestStore(t, source, reg)

	if store.Current() != nil || store.Ready() {
		t.Fatal("expected no table before the first load")
	}

	first, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if store.Current() != first || !store.Ready() {
		t.Fatal("expected the loaded table to be published")
	}
	if first.BuiltAt().IsZero() {
		t.Fatal("expected built at to be set")
	}

	second, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if second != first {
		t.Fatal("expected unchanged sources to keep the same table")
	}

	checks := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{"pipeline_refresh_total", map[string]string{"result": LoadRebuilt}, 1},
		{"pipeline_refresh_total", map[string]string{"result": LoadUnchanged}, 1},
		{"pipeline_fact_rows", nil, 1},
		{"pipeline_build_duration_seconds", map[string]string{"outcome": "success"}, 2},
	}
	for _, check := range checks {
		if got := gatherValue(t, reg, check.name, check.labels); got != check.want {
			t.Fatalf("%s%v = %v, want %v", check.name, check.labels, got, check.want)
		}
	}
}

func TestStoreReloadRebuildsUnchangedSources(t *testing.T) {
	reg := prometheus.NewRegistry()
	store := newTestStore(t, &fakeSource{tables: scenarioA()}, reg)

	first, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	reloaded, err := store.Reload(context.Background())
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded == first {
		t.Fatal("expected reload to build a new table")
	}
	if reloaded.Fingerprint() != first.Fingerprint() {
		t.Fatal("expected identical inputs to keep the fingerprint")
	}
	if store.Current() != reloaded {
		t.Fatal("expected the reloaded table to be published")
	}
	if got := gatherValue(t, reg, "pipeline_refresh_total", map[string]string{"result": LoadRebuilt}); got != 2 {
		t.Fatalf("expected two rebuilds, got %v", got)
	}
}

func TestStoreFailedLoadKeepsPreviousTable(t *testing.T) {
	reg := prometheus.NewRegistry()
	source := &fakeSource{tables: scenarioA()}
	store := newTestStore(t, source, reg)

	first, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	source.set(dataset.Tables{}, pkgerrors.New(pkgerrors.CodeConfiguration, "orders: missing required columns"))
	_, err = store.Load(context.Background())
	if err == nil {
		t.Fatal("expected load error")
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if store.Current() != first {
		t.Fatal("expected the previous table to stay published")
	}
	if got := gatherValue(t, reg, "pipeline_refresh_total", map[string]string{"result": LoadFailed}); got != 1 {
		t.Fatalf("expected one failed load, got %v", got)
	}
}

func TestStoreSwapIsAtomicForReaders(t *testing.T) {
	source := &fakeSource{tables: scenarioA()}
	store := newTestStore(t, source, nil)
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	bigger := scenarioA()
	bigger.Items = append(bigger.Items, item("1", 2, "p1", "1"), item("1", 3, "p1", "1"))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				table := store.Current()
				// A reader sees either the one-row or the three-row table.
				if n := table.Len(); n != 1 && n != 3 {
					t.Errorf("observed partial table with %d rows", n)
					return
				}
			}
		}()
	}

	for i := range 20 {
		if i%2 == 0 {
			source.set(bigger, nil)
		} else {
			source.set(scenarioA(), nil)
		}
		if _, err := store.Load(context.Background()); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	close(stop)
	wg.Wait()
}
