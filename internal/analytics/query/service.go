package query

import (
	"cmp"
	"slices"

	"github.com/angelmondragon/olist-dashboard/internal/analytics/types"
	"github.com/angelmondragon/olist-dashboard/internal/pipeline"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTopCities is the size of the city ranking when none is given.
	DefaultTopCities = 10
	// CategoryShareLimit caps the category GMV share breakdown.
	CategoryShareLimit = 20
)

// Service answers dashboard aggregations over one fact table. It never
// mutates the table; a nil table behaves as an empty one. Filters naming a
// value absent from the table produce empty results.
type Service struct {
	table *pipeline.FactTable
}

func New(table *pipeline.FactTable) *Service {
	return &Service{table: table}
}

type dayTotals struct {
	orders map[string]struct{}
	items  int64
	gmv    decimal.Decimal
}

// daily groups the filtered rows by order date. Dates are returned ascending.
func (s *Service) daily(filter types.Filter) ([]string, map[string]*dayTotals) {
	if !filter.Overall() && !filter.Dimension.IsValid() {
		return nil, nil
	}
	totals := make(map[string]*dayTotals)
	for row := range s.table.All() {
		if !matches(row, filter) {
			continue
		}
		date := types.FormatDate(row.OrderDate)
		day, ok := totals[date]
		if !ok {
			day = &dayTotals{orders: make(map[string]struct{})}
			totals[date] = day
		}
		day.orders[row.OrderID] = struct{}{}
		day.items++
		day.gmv = day.gmv.Add(row.Price)
	}
	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	slices.Sort(dates)
	return dates, totals
}

// DemandSeries counts distinct orders per day for the overall view and item
// rows per day for a dimension filter. Days without activity are absent.
func (s *Service) DemandSeries(filter types.Filter) []types.TimeSeriesPoint {
	dates, totals := s.daily(filter)
	points := make([]types.TimeSeriesPoint, 0, len(dates))
	for _, date := range dates {
		day := totals[date]
		value := day.items
		if filter.Overall() {
			value = int64(len(day.orders))
		}
		points = append(points, types.TimeSeriesPoint{Date: date, Value: value})
	}
	return points
}

// GMVSeries sums item prices per day along with order and item counts.
func (s *Service) GMVSeries(filter types.Filter) []types.GMVPoint {
	dates, totals := s.daily(filter)
	points := make([]types.GMVPoint, 0, len(dates))
	for _, date := range dates {
		day := totals[date]
		orders := int64(len(day.orders))
		points = append(points, types.GMVPoint{
			Date:   date,
			GMV:    day.gmv,
			Orders: orders,
			Items:  day.items,
			AOV:    averageOrderValue(day.gmv, orders),
		})
	}
	return points
}

// averageOrderValue is nil when there are no orders. It keeps full decimal
// precision; rounding is left to the consumer.
func averageOrderValue(gmv decimal.Decimal, orders int64) *decimal.Decimal {
	if orders == 0 {
		return nil
	}
	aov := gmv.Div(decimal.NewFromInt(orders))
	return &aov
}

// GMVShare groups GMV by dimension, largest first with ties by label. Category
// keeps the top 20, state keeps every state, and city covers exactly the
// top 10 cities by order count. Overall is treated as category.
func (s *Service) GMVShare(dimension enums.Dimension) []types.ShareEntry {
	switch dimension {
	case enums.DimensionOverall, enums.DimensionCategory:
		return topShare(s.groupGMV(categoryOf, nil), CategoryShareLimit)
	case enums.DimensionState:
		return topShare(s.groupGMV(stateOf, nil), 0)
	case enums.DimensionCity:
		cities := s.TopCities(DefaultTopCities)
		allowed := make(map[string]decimal.Decimal, len(cities))
		for _, city := range cities {
			allowed[city] = decimal.Zero
		}
		return topShare(s.groupGMV(cityOf, allowed), 0)
	default:
		return []types.ShareEntry{}
	}
}

// groupGMV sums price per label. When seed is non-nil only its labels are
// counted and every seeded label is kept even without GMV.
func (s *Service) groupGMV(label func(pipeline.FactRow) (string, bool), seed map[string]decimal.Decimal) map[string]decimal.Decimal {
	restricted := seed != nil
	totals := seed
	if totals == nil {
		totals = make(map[string]decimal.Decimal)
	}
	for row := range s.table.All() {
		key, ok := label(row)
		if !ok {
			continue
		}
		current, seen := totals[key]
		if restricted && !seen {
			continue
		}
		totals[key] = current.Add(row.Price)
	}
	return totals
}

func topShare(totals map[string]decimal.Decimal, limit int) []types.ShareEntry {
	entries := make([]types.ShareEntry, 0, len(totals))
	for label, gmv := range totals {
		entries = append(entries, types.ShareEntry{Label: label, GMV: gmv})
	}
	slices.SortFunc(entries, func(a, b types.ShareEntry) int {
		if c := b.GMV.Cmp(a.GMV); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// TopCities ranks cities by distinct order count, ties broken alphabetically.
// n <= 0 means DefaultTopCities.
func (s *Service) TopCities(n int) []string {
	if n <= 0 {
		n = DefaultTopCities
	}
	orders := make(map[string]map[string]struct{})
	for row := range s.table.All() {
		city, ok := cityOf(row)
		if !ok {
			continue
		}
		set, found := orders[city]
		if !found {
			set = make(map[string]struct{})
			orders[city] = set
		}
		set[row.OrderID] = struct{}{}
	}

	cities := make([]string, 0, len(orders))
	for city := range orders {
		cities = append(cities, city)
	}
	slices.SortFunc(cities, func(a, b string) int {
		if c := cmp.Compare(len(orders[b]), len(orders[a])); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if len(cities) > n {
		cities = cities[:n]
	}
	return cities
}

// DistinctValues lists the values of a dimension in ascending order. Overall
// has no values.
func (s *Service) DistinctValues(dimension enums.Dimension) []string {
	var label func(pipeline.FactRow) (string, bool)
	switch dimension {
	case enums.DimensionCategory:
		label = categoryOf
	case enums.DimensionState:
		label = stateOf
	case enums.DimensionCity:
		label = cityOf
	default:
		return []string{}
	}

	seen := make(map[string]struct{})
	for row := range s.table.All() {
		if value, ok := label(row); ok {
			seen[value] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for value := range seen {
		values = append(values, value)
	}
	slices.Sort(values)
	return values
}

// DateRange returns the first and last order dates, empty for an empty table.
func (s *Service) DateRange() (first, last string) {
	for row := range s.table.All() {
		date := types.FormatDate(row.OrderDate)
		if first == "" || date < first {
			first = date
		}
		if date > last {
			last = date
		}
	}
	return first, last
}

func matches(row pipeline.FactRow, filter types.Filter) bool {
	switch filter.Dimension {
	case "", enums.DimensionOverall:
		return true
	case enums.DimensionCategory:
		return row.Category == filter.Value
	case enums.DimensionState:
		return row.State != nil && *row.State == filter.Value
	case enums.DimensionCity:
		return row.City != nil && *row.City == filter.Value
	default:
		return false
	}
}

func categoryOf(row pipeline.FactRow) (string, bool) {
	return row.Category, true
}

func stateOf(row pipeline.FactRow) (string, bool) {
	if row.State == nil {
		return "", false
	}
	return *row.State, true
}

func cityOf(row pipeline.FactRow) (string, bool) {
	if row.City == nil {
		return "", false
	}
	return *row.City, true
}
