package analytics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/olist-dashboard/internal/analytics/query"
	"github.com/angelmondragon/olist-dashboard/internal/analytics/types"
	"github.com/angelmondragon/olist-dashboard/internal/pipeline"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	pkgerrors "github.com/angelmondragon/olist-dashboard/pkg/errors"
	"github.com/angelmondragon/olist-dashboard/pkg/logger"
	"github.com/angelmondragon/olist-dashboard/pkg/metrics"
	json "github.com/goccy/go-json"
)

// Measures reported alongside demand figures.
const (
	MeasureOrders = "orders"
	MeasureItems  = "items"
)

// Service answers dashboard views over the currently published fact table.
type Service interface {
	Demand(ctx context.Context, sel types.Selection) (*types.DemandResponse, error)
	GMV(ctx context.Context, sel types.Selection) (*types.GMVResponse, error)
	Share(ctx context.Context, dimension enums.Dimension) (*types.ShareResponse, error)
	TopCities(ctx context.Context, n int) ([]string, error)
	DistinctValues(ctx context.Context, dimension enums.Dimension) ([]string, error)
	Options(ctx context.Context) (*types.FilterOptions, error)
	Summary(ctx context.Context) (*types.Summary, error)
}

// TableProvider exposes the published fact table; nil means not built yet.
type TableProvider interface {
	Current() *pipeline.FactTable
}

// ResultCache stores encoded query results. Keys embed the fact table
// fingerprint, so a rebuilt table never reads stale results.
type ResultCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	QueryKey(fingerprint string, parts ...string) string
}

// ServiceParams configure the dashboard service. Cache and Metrics are optional.
type ServiceParams struct {
	Tables   TableProvider
	Cache    ResultCache
	CacheTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.QueryMetrics
}

type service struct {
	tables   TableProvider
	cache    ResultCache
	cacheTTL time.Duration
	logg     *logger.Logger
	metrics  *metrics.QueryMetrics
}

// NewService builds the dashboard service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tables == nil {
		return nil, fmt.Errorf("table provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tables:   params.Tables,
		cache:    params.Cache,
		cacheTTL: params.CacheTTL,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Demand(ctx context.Context, sel types.Selection) (*types.DemandResponse, error) {
	sel, err := NormalizeSelection(sel, enums.ViewDemand)
	if err != nil {
		return nil, err
	}
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observe("demand", sel.Dimension, time.Now())

	return cached(ctx, s, table, []string{"demand", sel.Dimension.String(), sel.Value}, func() *types.DemandResponse {
		return &types.DemandResponse{
			Selection: sel,
			Measure:   demandMeasure(sel.Dimension),
			Series:    query.New(table).DemandSeries(sel.Filter()),
		}
	}), nil
}

func (s *service) GMV(ctx context.Context, sel types.Selection) (*types.GMVResponse, error) {
	sel, err := NormalizeSelection(sel, enums.ViewGMV)
	if err != nil {
		return nil, err
	}
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observe("gmv", sel.Dimension, time.Now())

	return cached(ctx, s, table, []string{"gmv", sel.Dimension.String(), sel.Value}, func() *types.GMVResponse {
		q := query.New(table)
		series := q.GMVSeries(sel.Filter())
		shareDimension := shareDimensionFor(sel.Dimension)
		return &types.GMVResponse{
			Selection:      sel,
			Series:         series,
			ShareDimension: shareDimension,
			Share:          q.GMVShare(shareDimension),
			OverlayMeasure: demandMeasure(sel.Dimension),
			Overlay:        overlay(series, sel.Dimension),
		}
	}), nil
}

func (s *service) Share(ctx context.Context, dimension enums.Dimension) (*types.ShareResponse, error) {
	dimension, err := parseDimension(dimension)
	if err != nil {
		return nil, err
	}
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observe("share", dimension, time.Now())

	return cached(ctx, s, table, []string{"share", dimension.String()}, func() *types.ShareResponse {
		return &types.ShareResponse{
			Dimension: dimension,
			Entries:   query.New(table).GMVShare(dimension),
		}
	}), nil
}

func (s *service) TopCities(ctx context.Context, n int) ([]string, error) {
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = query.DefaultTopCities
	}
	defer s.observe("top_cities", enums.DimensionCity, time.Now())

	return cached(ctx, s, table, []string{"top_cities", strconv.Itoa(n)}, func() []string {
		return query.New(table).TopCities(n)
	}), nil
}

func (s *service) DistinctValues(ctx context.Context, dimension enums.Dimension) ([]string, error) {
	dimension, err := parseDimension(dimension)
	if err != nil {
		return nil, err
	}
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observe("distinct_values", dimension, time.Now())

	return cached(ctx, s, table, []string{"values", dimension.String()}, func() []string {
		return query.New(table).DistinctValues(dimension)
	}), nil
}

func (s *service) Options(ctx context.Context) (*types.FilterOptions, error) {
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	defer s.observe("options", enums.DimensionOverall, time.Now())

	return cached(ctx, s, table, []string{"options"}, func() *types.FilterOptions {
		q := query.New(table)
		return &types.FilterOptions{
			Dimensions: enums.Dimensions(),
			Categories: q.DistinctValues(enums.DimensionCategory),
			States:     q.DistinctValues(enums.DimensionState),
			Cities:     q.TopCities(query.DefaultTopCities),
		}
	}), nil
}

func (s *service) Summary(ctx context.Context) (*types.Summary, error) {
	table, err := s.current()
	if err != nil {
		return nil, err
	}
	first, last := query.New(table).DateRange()
	return &types.Summary{
		Fingerprint: table.FingerprintHex(),
		BuiltAt:     table.BuiltAt(),
		Location:    table.Location().String(),
		Rows:        table.Len(),
		FirstDate:   first,
		LastDate:    last,
		Stats:       table.Stats(),
	}, nil
}

func (s *service) current() (*pipeline.FactTable, error) {
	table := s.tables.Current()
	if table == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "fact table not ready")
	}
	return table, nil
}

func (s *service) observe(operation string, dimension enums.Dimension, start time.Time) {
	s.metrics.ObserveQuery(operation, dimension.String(), time.Since(start))
}

// cached serves a result from the result cache when one is configured, and
// computes and stores it otherwise. Cache failures only cost a recompute.
func cached[T any](ctx context.Context, s *service, table *pipeline.FactTable, parts []string, compute func() T) T {
	if s.cache == nil {
		return compute()
	}
	key := s.cache.QueryKey(table.FingerprintHex(), parts...)
	keyCtx := s.logg.WithField(ctx, "cache_key", key)

	payload, found, err := s.cache.GetBytes(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncCache("error")
		s.logg.Warn(s.logg.WithField(keyCtx, "error", err.Error()), "result cache read failed")
	case found:
		var out T
		if err := json.Unmarshal(payload, &out); err == nil {
			s.metrics.IncCache("hit")
			return out
		}
		s.metrics.IncCache("error")
		s.logg.Warn(keyCtx, "discarding undecodable cached result")
	default:
		s.metrics.IncCache("miss")
	}

	result := compute()
	encoded, err := json.Marshal(result)
	if err != nil {
		s.logg.Warn(s.logg.WithField(keyCtx, "error", err.Error()), "result encode failed")
		return result
	}
	if err := s.cache.SetBytes(ctx, key, encoded, s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(keyCtx, "error", err.Error()), "result cache write failed")
	}
	return result
}

// NormalizeSelection fills defaults and checks the filter vocabulary: the view
// must match, the dimension must be known, and a value is required iff the
// dimension is not overall.
func NormalizeSelection(sel types.Selection, view enums.View) (types.Selection, error) {
	if sel.View == "" {
		sel.View = view
	}
	parsedView, err := enums.ParseView(string(sel.View))
	if err != nil || parsedView != view {
		return sel, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("selection view must be %s", view)).
			WithDetails(map[string]any{"view": sel.View})
	}
	sel.View = parsedView
	dimension, err := parseDimension(sel.Dimension)
	if err != nil {
		return sel, err
	}
	sel.Dimension = dimension
	sel.Value = strings.TrimSpace(sel.Value)

	switch {
	case dimension.RequiresValue() && sel.Value == "":
		return sel, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("value is required for dimension %s", dimension)).
			WithDetails(map[string]any{"dimension": dimension})
	case !dimension.RequiresValue() && sel.Value != "":
		return sel, pkgerrors.New(pkgerrors.CodeValidation, "value must be empty for the overall dimension").
			WithDetails(map[string]any{"value": sel.Value})
	}
	return sel, nil
}

func parseDimension(dimension enums.Dimension) (enums.Dimension, error) {
	parsed, err := enums.ParseDimension(string(dimension))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dimension").
			WithDetails(map[string]any{"dimension": dimension, "allowed": enums.Dimensions()})
	}
	return parsed, nil
}

// demandMeasure names what demand counts for a dimension.
func demandMeasure(dimension enums.Dimension) string {
	if dimension == enums.DimensionOverall {
		return MeasureOrders
	}
	return MeasureItems
}

// shareDimensionFor picks the breakdown shown next to a GMV series. The
// overall view shows category share.
func shareDimensionFor(dimension enums.Dimension) enums.Dimension {
	if dimension == enums.DimensionOverall {
		return enums.DimensionCategory
	}
	return dimension
}

func overlay(series []types.GMVPoint, dimension enums.Dimension) []types.OverlayPoint {
	points := make([]types.OverlayPoint, 0, len(series))
	for _, point := range series {
		demand := point.Items
		if dimension == enums.DimensionOverall {
			demand = point.Orders
		}
		points = append(points, types.OverlayPoint{Date: point.Date, Demand: demand, GMV: point.GMV})
	}
	return points
}
