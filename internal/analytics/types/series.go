package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout renders order dates in every series.
const DateLayout = time.DateOnly

// FormatDate renders an order date as YYYY-MM-DD in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeSeriesPoint describes a single date/count pair.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// GMVPoint is one day of GMV. AOV is nil when the day has no orders.
type GMVPoint struct {
	Date   string           `json:"date"`
	GMV    decimal.Decimal  `json:"gmv"`
	Orders int64            `json:"orders"`
	Items  int64            `json:"items"`
	AOV    *decimal.Decimal `json:"aov"`
}

// ShareEntry is one bar of a GMV share breakdown.
type ShareEntry struct {
	Label string          `json:"label"`
	GMV   decimal.Decimal `json:"gmv"`
}

// OverlayPoint pairs demand with GMV for the same day.
type OverlayPoint struct {
	Date   string          `json:"date"`
	Demand int64           `json:"demand"`
	GMV    decimal.Decimal `json:"gmv"`
}
