package validators

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/olist-dashboard/internal/analytics/types"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
)

// SelectionQuery is the raw filter vocabulary accepted on query strings.
type SelectionQuery struct {
	Dimension string `query:"dimension" validate:"omitempty,oneof=overall category state city"`
	Value     string `query:"value" validate:"max=200"`
}

// ParseSelection reads dimension and value from the query string. Whether the
// value is required is checked by the dashboard service.
func ParseSelection(r *http.Request, view enums.View) (types.Selection, error) {
	query := r.URL.Query()
	raw := SelectionQuery{
		Dimension: strings.ToLower(SanitizeString(query.Get("dimension"), 0)),
		Value:     SanitizeString(query.Get("value"), 0),
	}
	if err := Struct(raw); err != nil {
		return types.Selection{}, err
	}
	dimension, err := enums.ParseDimension(raw.Dimension)
	if err != nil {
		return types.Selection{}, err
	}
	return types.Selection{View: view, Dimension: dimension, Value: raw.Value}, nil
}

// DimensionQuery validates a dimension taken from a path or query parameter.
type DimensionQuery struct {
	Dimension string `query:"dimension" validate:"omitempty,oneof=overall category state city"`
}

// ParseDimension validates and converts a raw dimension. Empty means overall.
func ParseDimension(raw string) (enums.Dimension, error) {
	q := DimensionQuery{Dimension: strings.ToLower(SanitizeString(raw, 0))}
	if err := Struct(q); err != nil {
		return "", err
	}
	return enums.ParseDimension(q.Dimension)
}
