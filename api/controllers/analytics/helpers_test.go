package analytics

import (
	"context"

	"github.com/angelmondragon/olist-dashboard/internal/analytics/types"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
)

type testDashboardService struct {
	lastSelection types.Selection
	lastDimension enums.Dimension
	lastN         int
	calls         int
	err           error
}

func (s *testDashboardService) Demand(ctx context.Context, sel types.Selection) (*types.DemandResponse, error) {
	s.calls++
	s.lastSelection = sel
	if s.err != nil {
		return nil, s.err
	}
	return &types.DemandResponse{
		Selection: sel,
		Measure:   "orders",
		Series:    []types.TimeSeriesPoint{{Date: "2017-11-24", Value: 1147}},
	}, nil
}

func (s *testDashboardService) GMV(ctx context.Context, sel types.Selection) (*types.GMVResponse, error) {
	s.calls++
	s.lastSelection = sel
	if s.err != nil {
		return nil, s.err
	}
	return &types.GMVResponse{Selection: sel, ShareDimension: enums.DimensionCategory}, nil
}

func (s *testDashboardService) Share(ctx context.Context, dimension enums.Dimension) (*types.ShareResponse, error) {
	s.calls++
	s.lastDimension = dimension
	if s.err != nil {
		return nil, s.err
	}
	return &types.ShareResponse{Dimension: dimension}, nil
}

func (s *testDashboardService) TopCities(ctx context.Context, n int) ([]string, error) {
	s.calls++
	s.lastN = n
	if s.err != nil {
		return nil, s.err
	}
	return []string{"sao paulo", "rio de janeiro"}, nil
}

func (s *testDashboardService) DistinctValues(ctx context.Context, dimension enums.Dimension) ([]string, error) {
	s.calls++
	s.lastDimension = dimension
	if s.err != nil {
		return nil, s.err
	}
	return []string{"RJ", "SP"}, nil
}

func (s *testDashboardService) Options(ctx context.Context) (*types.FilterOptions, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.FilterOptions{Dimensions: enums.Dimensions(), States: []string{"SP"}}, nil
}

func (s *testDashboardService) Summary(ctx context.Context) (*types.Summary, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.Summary{Fingerprint: "00000000000000ff", Rows: 3}, nil
}
