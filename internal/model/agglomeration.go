package model

import "github.com/twpayne/go-geom"

// Agglomeration is a cluster of localities connected within an accessibility
// threshold around one or more dominant cores. Member sets of distinct
// agglomerations are disjoint.
type Agglomeration struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"` // primary core name
	CoreID      int64         `json:"core_id"`
	CoreTier    Tier          `json:"core_tier"`
	CoreIDs     []int64       `json:"core_ids"` // all cores; >1 means polycentric
	MemberIDs   []int64       `json:"member_ids"`
	Population  int           `json:"population"`
	Level       int           `json:"level"` // 1..5, from aggregate population
	Polycentric bool          `json:"polycentric"`
	Boundary    *geom.Polygon `json:"-"`
}

// Contains reports whether the locality is a member of the agglomeration.
// MemberIDs is kept sorted, so a linear scan over the usually short slice is fine.
func (a *Agglomeration) Contains(localityID int64) bool {
	for _, id := range a.MemberIDs {
		if id == localityID {
			return true
		}
		if id > localityID {
			return false
		}
	}
	return false
}

// AgglomerationLevel maps aggregate population to the 1..5 level scale.
func AgglomerationLevel(population int) int {
	switch {
	case population <= 250_000:
		return 1
	case population <= 500_000:
		return 2
	case population <= 1_000_000:
		return 3
	case population <= 5_000_000:
		return 4
	default:
		return 5
	}
}
