package enums

import (
	"fmt"
	"slices"
	"strings"
)

// Dimension selects how dashboard series are sliced.
type Dimension string

const (
	DimensionOverall  Dimension = "overall"
	DimensionCategory Dimension = "category"
	DimensionState    Dimension = "state"
	DimensionCity     Dimension = "city"
)

var validDimensions = []Dimension{
	DimensionOverall,
	DimensionCategory,
	DimensionState,
	DimensionCity,
}

// Dimensions lists every dimension in display order.
func Dimensions() []Dimension {
	return slices.Clone(validDimensions)
}

// String implements fmt.Stringer.
func (d Dimension) String() string {
	return string(d)
}

// IsValid reports whether the value is a known Dimension.
func (d Dimension) IsValid() bool {
	for _, candidate := range validDimensions {
		if candidate == d {
			return true
		}
	}
	return false
}

// RequiresValue reports whether a filter on this dimension needs a value.
func (d Dimension) RequiresValue() bool {
	return d != DimensionOverall
}

// ParseDimension converts raw input into a Dimension. Empty input means overall.
func ParseDimension(value string) (Dimension, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return DimensionOverall, nil
	}
	for _, candidate := range validDimensions {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dimension %q", value)
}
