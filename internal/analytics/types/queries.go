package types

import (
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
)

// Filter narrows the fact table to one dimension value. The zero Filter is
// the overall view.
type Filter struct {
	Dimension enums.Dimension
	Value     string
}

// Overall reports whether the filter selects every row.
func (f Filter) Overall() bool {
	return f.Dimension == "" || f.Dimension == enums.DimensionOverall
}

// Selection is the dashboard filter vocabulary: a view plus a dimension
// filter. Value is required iff Dimension is not overall.
type Selection struct {
	View      enums.View      `json:"view"`
	Dimension enums.Dimension `json:"dimension"`
	Value     string          `json:"value,omitempty"`
}

// Filter drops the view from the selection.
func (s Selection) Filter() Filter {
	return Filter{Dimension: s.Dimension, Value: s.Value}
}
