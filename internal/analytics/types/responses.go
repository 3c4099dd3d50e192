package types

import (
	"time"

	"github.com/angelmondragon/olist-dashboard/internal/pipeline"
	"github.com/angelmondragon/olist-dashboard/pkg/enums"
)

// DemandResponse backs the demand view.
type DemandResponse struct {
	Selection Selection `json:"selection"`
	// Measure is "orders" for the overall view and "items" for sliced views.
	Measure string            `json:"measure"`
	Series  []TimeSeriesPoint `json:"series"`
}

// GMVResponse backs the GMV view: the daily series, the share breakdown
// matching the selected dimension and the demand-vs-GMV overlay.
type GMVResponse struct {
	Selection      Selection       `json:"selection"`
	Series         []GMVPoint      `json:"series"`
	ShareDimension enums.Dimension `json:"share_dimension"`
	Share          []ShareEntry    `json:"share"`
	OverlayMeasure string          `json:"overlay_measure"`
	Overlay        []OverlayPoint  `json:"overlay"`
}

// ShareResponse wraps a standalone share breakdown.
type ShareResponse struct {
	Dimension enums.Dimension `json:"dimension"`
	Entries   []ShareEntry    `json:"entries"`
}

// FilterOptions lists the values a selector may offer.
type FilterOptions struct {
	Dimensions []enums.Dimension `json:"dimensions"`
	Categories []string          `json:"categories"`
	States     []string          `json:"states"`
	Cities     []string          `json:"cities"`
}

// Summary describes the published fact table.
type Summary struct {
	Fingerprint string         `json:"fingerprint"`
	BuiltAt     time.Time      `json:"built_at"`
	Location    string         `json:"location"`
	Rows        int            `json:"rows"`
	FirstDate   string         `json:"first_date,omitempty"`
	LastDate    string         `json:"last_date,omitempty"`
	Stats       pipeline.Stats `json:"stats"`
}
