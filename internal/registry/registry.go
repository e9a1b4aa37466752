// Package registry is the canonical store of localities and administrative
// units. It owns their lifetime and validates referential integrity at
// construction; derived framework artifacts are built elsewhere and never
// mutate the registry.
package registry

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/geometry"
	"github.com/urbanlab/settlement-cli/internal/model"
)

// Registry holds validated localities and administrative units with
// deterministic, ID-sorted iteration order.
type Registry struct {
	localities     map[int64]*model.Locality
	districts      map[int64]*model.District
	municipalities map[int64]*model.Municipality
	sortedIDs      []int64
	extent         geometry.Extent
}

// New builds a Registry from localities and administrative units.
// It fails with a data integrity error when a locality violates its own
// invariants, references a missing district or municipality, or when a
// municipality references a missing district. Boundary containment is
// validated as warnings only.
func New(localities []model.Locality, districts []model.District, municipalities []model.Municipality) (*Registry, error) {
	r := &Registry{
		localities:     make(map[int64]*model.Locality, len(localities)),
		districts:      make(map[int64]*model.District, len(districts)),
		municipalities: make(map[int64]*model.Municipality, len(municipalities)),
		extent:         geometry.EmptyExtent(),
	}

	for i := range districts {
		d := districts[i]
		if _, dup := r.districts[d.ID]; dup {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "registry: duplicate district %d", d.ID)
		}
		r.districts[d.ID] = &d
	}

	for i := range municipalities {
		m := municipalities[i]
		if _, dup := r.municipalities[m.ID]; dup {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "registry: duplicate municipality %d", m.ID)
		}
		if _, ok := r.districts[m.DistrictID]; !ok {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"registry: municipality %d references unknown district %d", m.ID, m.DistrictID)
		}
		r.municipalities[m.ID] = &m
	}

	log := zap.L().With(zap.String("component", "registry"))

	for i := range localities {
		l := localities[i]
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.localities[l.ID]; dup {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "registry: duplicate locality %d", l.ID)
		}
		if _, ok := r.districts[l.DistrictID]; !ok {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"registry: locality %d references unknown district %d", l.ID, l.DistrictID)
		}
		mun, ok := r.municipalities[l.MunicipalityID]
		if !ok {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"registry: locality %d references unknown municipality %d", l.ID, l.MunicipalityID)
		}
		if mun.DistrictID != l.DistrictID {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"registry: locality %d district %d does not match municipality %d district %d",
				l.ID, l.DistrictID, mun.ID, mun.DistrictID)
		}

		// Containment check is advisory: boundary data is frequently coarser
		// than locality coordinates.
		if mun.Boundary != nil && !geometry.PointInMultiPolygon(l.Coord(), mun.Boundary) {
			log.Warn("locality outside municipality boundary",
				zap.Int64("locality_id", l.ID),
				zap.Int64("municipality_id", mun.ID),
			)
		}

		r.localities[l.ID] = &l
		r.sortedIDs = append(r.sortedIDs, l.ID)
		r.extent = r.extent.Extend(l.Coord())
	}

	sort.Slice(r.sortedIDs, func(i, j int) bool { return r.sortedIDs[i] < r.sortedIDs[j] })
	return r, nil
}

// Locality returns the locality with the given ID.
func (r *Registry) Locality(id int64) (*model.Locality, bool) {
	l, ok := r.localities[id]
	return l, ok
}

// Has reports whether the locality exists.
func (r *Registry) Has(id int64) bool {
	_, ok := r.localities[id]
	return ok
}

// Localities returns all localities sorted by ID.
func (r *Registry) Localities() []*model.Locality {
	out := make([]*model.Locality, 0, len(r.sortedIDs))
	for _, id := range r.sortedIDs {
		out = append(out, r.localities[id])
	}
	return out
}

// IDs returns all locality IDs in ascending order.
func (r *Registry) IDs() []int64 {
	out := make([]int64, len(r.sortedIDs))
	copy(out, r.sortedIDs)
	return out
}

// Len returns the number of localities.
func (r *Registry) Len() int { return len(r.sortedIDs) }

// District returns the district with the given ID.
func (r *Registry) District(id int64) (*model.District, bool) {
	d, ok := r.districts[id]
	return d, ok
}

// Municipality returns the municipality with the given ID.
func (r *Registry) Municipality(id int64) (*model.Municipality, bool) {
	m, ok := r.municipalities[id]
	return m, ok
}

// Districts returns all districts sorted by ID.
func (r *Registry) Districts() []*model.District {
	out := make([]*model.District, 0, len(r.districts))
	for _, d := range r.districts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Municipalities returns all municipalities sorted by ID.
func (r *Registry) Municipalities() []*model.Municipality {
	out := make([]*model.Municipality, 0, len(r.municipalities))
	for _, m := range r.municipalities {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MunicipalitiesOf returns a district's municipalities sorted by ID.
func (r *Registry) MunicipalitiesOf(districtID int64) []*model.Municipality {
	var out []*model.Municipality
	for _, m := range r.municipalities {
		if m.DistrictID == districtID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LocalitiesIn returns the member localities of an administrative unit,
// sorted by ID.
func (r *Registry) LocalitiesIn(kind model.UnitKind, unitID int64) []*model.Locality {
	var out []*model.Locality
	for _, id := range r.sortedIDs {
		l := r.localities[id]
		switch kind {
		case model.UnitDistrict:
			if l.DistrictID == unitID {
				out = append(out, l)
			}
		case model.UnitMunicipality:
			if l.MunicipalityID == unitID {
				out = append(out, l)
			}
		}
	}
	return out
}

// Extent returns the bounding box over all locality coordinates.
func (r *Registry) Extent() geometry.Extent { return r.extent }
