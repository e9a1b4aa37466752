package model

import "github.com/twpayne/go-geom"

// NearestLocality describes the closest framework locality of a given tier.
type NearestLocality struct {
	LocalityID int64   `json:"locality_id"`
	Name       string  `json:"name"`
	Distance   float64 `json:"distance_m"`
}

// TerritoryScore is the immutable result of evaluating a territory geometry
// against a built framework model.
type TerritoryScore struct {
	Geometry geom.T `json:"-"`

	// NearestByTier holds the closest locality per tier. Tiers with no
	// classified locality are absent.
	NearestByTier map[Tier]NearestLocality `json:"nearest_by_tier"`

	// OutOfRegion is set when the territory lies fully outside the region
	// extent. Distances are still populated.
	OutOfRegion bool `json:"out_of_region"`

	InAgglomeration   bool   `json:"in_agglomeration"`
	AgglomerationID   int64  `json:"agglomeration_id,omitempty"`
	AgglomerationName string `json:"agglomeration_name,omitempty"`

	// LocationScore grades the territory's position in the settlement
	// framework on a 0..5 scale, 0 meaning outside the framework.
	LocationScore       int      `json:"location_score"`
	Interpretation      string   `json:"interpretation"`
	ReferenceLocalities []string `json:"reference_localities,omitempty"`
}
