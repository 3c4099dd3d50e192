package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/angelmondragon/olist-dashboard/internal/dataset"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/angelmondragon/olist-dashboard/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// Load outcomes recorded in metrics and logs.
const (
	LoadRebuilt   = "rebuilt"
	LoadUnchanged = "unchanged"
	LoadFailed    = "failed"
)

// StoreParams configure a Store.
type StoreParams struct {
	Source  dataset.Source
	Options Options
	Logger  *logger.Logger
	Metrics *metrics.PipelineMetrics
	// Memo defaults to a fresh Memo.
	Memo *Memo
}

// Store publishes the current fact table. Readers get either the previous
// complete table or the new one; a failed load leaves the previous table in place.
type Store struct {
	source  dataset.Source
	opts    Options
	logg    *logger.Logger
	metrics *metrics.PipelineMetrics
	memo    *Memo

	current atomic.Pointer[FactTable]
	loads   singleflight.Group
}

func NewStore(params StoreParams) (*Store, error) {
	if params.Source == nil {
		return nil, fmt.Errorf("dataset source required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	memo := params.Memo
	if memo == nil {
		memo = NewMemo()
	}
	return &Store{
		source:  params.Source,
		opts:    params.Options,
		logg:    params.Logger,
		metrics: params.Metrics,
		memo:    memo,
	}, nil
}

// Current returns the published fact table, or nil before the first successful load.
func (s *Store) Current() *FactTable {
	return s.current.Load()
}

// Ready reports whether a fact table has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Load reads the sources, rebuilds the fact table if they changed and
// publishes it. Concurrent calls share one load.
func (s *Store) Load(ctx context.Context) (*FactTable, error) {
	v, err, _ := s.loads.Do("load", func() (any, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*FactTable), nil
}

// Reload forgets the remembered table and rebuilds from the sources even when
// they are unchanged.
func (s *Store) Reload(ctx context.Context) (*FactTable, error) {
	s.memo.Invalidate()
	return s.Load(ctx)
}

func (s *Store) load(ctx context.Context) (*FactTable, error) {
	ctx = s.logg.WithSource(ctx, s.source.Name())
	start := time.Now()

	tables, err := s.source.Load(ctx)
	if err != nil {
		s.metrics.ObserveLoad(LoadFailed, time.Since(start))
		return nil, fmt.Errorf("loading %s: %w", s.source.Name(), err)
	}

	table, rebuilt := s.memo.Prepare(tables, s.opts)
	result := LoadUnchanged
	if rebuilt || s.current.Load() != table {
		s.current.Store(table)
		s.publishStats(table)
		result = LoadRebuilt
	}
	duration := time.Since(start)
	s.metrics.ObserveLoad(result, duration)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"event":       "pipeline.load",
		"result":      result,
		"fingerprint": table.FingerprintHex(),
		"rows":        table.Len(),
		"duration_ms": duration.Milliseconds(),
	})
	if result == LoadRebuilt {
		s.logg.Info(ctx, "fact table published")
	} else {
		s.logg.Debug(ctx, "sources unchanged")
	}
	return table, nil
}

func (s *Store) publishStats(table *FactTable) {
	s.metrics.SetRows(table.Len())
	for reason, n := range table.Stats().Dropped() {
		s.metrics.SetDropped(reason, n)
	}
}
