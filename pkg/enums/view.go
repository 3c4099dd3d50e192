package enums

import (
	"fmt"
	"strings"
)

// View is the dashboard page a selection belongs to.
type View string

const (
	ViewDemand View = "demand"
	ViewGMV    View = "gmv"
)

var validViews = []View{
	ViewDemand,
	ViewGMV,
}

// String implements fmt.Stringer.
func (v View) String() string {
	return string(v)
}

// IsValid reports whether the value is a known View.
func (v View) IsValid() bool {
	for _, candidate := range validViews {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseView converts raw input into a View.
func ParseView(value string) (View, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validViews {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid view %q", value)
}
