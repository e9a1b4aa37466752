// Package model defines the settlement-framework data model: localities,
// administrative units, hierarchy tiers, agglomerations, and result records.
package model

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Services is the fixed set of named service capabilities a locality may have.
// Replaces the free-form attribute bags of upstream datasets with validated flags.
type Services struct {
	School     bool `json:"school"`
	Healthcare bool `json:"healthcare"`
	Retail     bool `json:"retail"`
	Culture    bool `json:"culture"`
	PostOffice bool `json:"post_office"`
	Transport  bool `json:"transport"`
}

// ServiceKinds is the number of distinct service capabilities.
const ServiceKinds = 6

// Count returns the number of services present.
func (s Services) Count() int {
	n := 0
	for _, present := range []bool{s.School, s.Healthcare, s.Retail, s.Culture, s.PostOffice, s.Transport} {
		if present {
			n++
		}
	}
	return n
}

// Locality is a populated settlement with demographic and service attributes.
// Geometry coordinates are planar (projected CRS, meters).
type Locality struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Geometry       *geom.Point `json:"-"`
	Population     int         `json:"population"`
	BirthRate      float64     `json:"birth_rate"`     // births per 1000 residents
	MortalityRate  float64     `json:"mortality_rate"` // deaths per 1000 residents
	DistrictID     int64       `json:"district_id"`
	MunicipalityID int64       `json:"municipality_id"`
	Services       Services    `json:"services"`
}

// Validate checks the locality's own invariants. Referential checks against
// administrative units belong to the registry.
func (l *Locality) Validate() error {
	if l.Population < 0 {
		return eris.Wrapf(ErrDataIntegrity, "model: locality %d has negative population %d", l.ID, l.Population)
	}
	if l.Geometry == nil {
		return eris.Wrapf(ErrDataIntegrity, "model: locality %d has nil geometry", l.ID)
	}
	if l.BirthRate < 0 || l.MortalityRate < 0 {
		return eris.Wrapf(ErrDataIntegrity, "model: locality %d has negative vital rate", l.ID)
	}
	return nil
}

// Coord returns the locality position as a flat coordinate.
func (l *Locality) Coord() geom.Coord {
	return geom.Coord{l.Geometry.X(), l.Geometry.Y()}
}
