package model

import "github.com/twpayne/go-geom"

// UnitKind distinguishes the two administrative levels.
type UnitKind string

const (
	UnitDistrict     UnitKind = "district"
	UnitMunicipality UnitKind = "municipality"
)

// District is the upper administrative unit. Districts contain municipalities;
// every locality resolves to exactly one district.
type District struct {
	ID       int64              `json:"id"`
	Name     string             `json:"name"`
	Boundary *geom.MultiPolygon `json:"-"`
}

// Municipality is the lower administrative unit, nested inside a district.
type Municipality struct {
	ID         int64              `json:"id"`
	Name       string             `json:"name"`
	DistrictID int64              `json:"district_id"`
	Boundary   *geom.MultiPolygon `json:"-"`
}

// AccessibilityEdge is a directed pairwise travel cost between two localities.
// Costs are typically symmetric but asymmetric entries are tolerated.
type AccessibilityEdge struct {
	FromID int64   `csv:"from" json:"from"`
	ToID   int64   `csv:"to" json:"to"`
	Cost   float64 `csv:"cost" json:"cost"` // travel time, minutes
}
