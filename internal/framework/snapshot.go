package framework

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"

	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// RestoreGraph rebuilds a graph from node IDs and canonical edges, as
// produced by Graph.Edges. Used when loading persisted models.
func RestoreGraph(ids []int64, edges []Edge) *Graph {
	g := newGraph(ids)
	for _, e := range edges {
		g.addEdge(e)
	}
	g.finalize()
	return g
}

// snapshotLocality is the persisted form of a locality: geometry flattened
// to plain coordinates.
type snapshotLocality struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	X              float64        `json:"x"`
	Y              float64        `json:"y"`
	Population     int            `json:"population"`
	BirthRate      float64        `json:"birth_rate"`
	MortalityRate  float64        `json:"mortality_rate"`
	DistrictID     int64          `json:"district_id"`
	MunicipalityID int64          `json:"municipality_id"`
	Services       model.Services `json:"services"`
}

type snapshotAgglomeration struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	CoreID      int64      `json:"core_id"`
	CoreTier    model.Tier `json:"core_tier"`
	CoreIDs     []int64    `json:"core_ids"`
	MemberIDs   []int64    `json:"member_ids"`
	Population  int        `json:"population"`
	Level       int        `json:"level"`
	Polycentric bool       `json:"polycentric"`
	Boundary    []float64  `json:"boundary,omitempty"`
}

type snapshotPayload struct {
	Localities     []snapshotLocality      `json:"localities"`
	Districts      []model.District        `json:"districts"`
	Municipalities []model.Municipality    `json:"municipalities"`
	Edges          []Edge                  `json:"edges"`
	Tiers          map[int64]model.Tier    `json:"tiers"`
	Agglomerations []snapshotAgglomeration `json:"agglomerations"`

	CostThreshold          float64 `json:"cost_threshold"`
	AgglomerationThreshold float64 `json:"agglomeration_threshold"`
	RadiusPerCostUnit      float64 `json:"radius_per_cost_unit"`
}

// EncodeModel serializes a built model to its snapshot form.
func EncodeModel(m *Model) ([]byte, error) {
	p := snapshotPayload{
		Edges:                  m.Graph.Edges(),
		Tiers:                  m.Tiers,
		CostThreshold:          m.CostThreshold,
		AgglomerationThreshold: m.AgglomerationThreshold,
		RadiusPerCostUnit:      m.RadiusPerCostUnit,
	}
	for _, id := range m.Registry.IDs() {
		loc, _ := m.Registry.Locality(id)
		c := loc.Coord()
		p.Localities = append(p.Localities, snapshotLocality{
			ID: loc.ID, Name: loc.Name, X: c[0], Y: c[1],
			Population: loc.Population, BirthRate: loc.BirthRate,
			MortalityRate: loc.MortalityRate, DistrictID: loc.DistrictID,
			MunicipalityID: loc.MunicipalityID, Services: loc.Services,
		})
	}
	for _, d := range m.Registry.Districts() {
		p.Districts = append(p.Districts, *d)
	}
	for _, mu := range m.Registry.Municipalities() {
		p.Municipalities = append(p.Municipalities, *mu)
	}
	for _, agg := range m.Agglomerations {
		sa := snapshotAgglomeration{
			ID: agg.ID, Name: agg.Name, CoreID: agg.CoreID, CoreTier: agg.CoreTier,
			CoreIDs: agg.CoreIDs, MemberIDs: agg.MemberIDs,
			Population: agg.Population, Level: agg.Level, Polycentric: agg.Polycentric,
		}
		if agg.Boundary != nil {
			sa.Boundary = agg.Boundary.FlatCoords()
		}
		p.Agglomerations = append(p.Agglomerations, sa)
	}

	data, err := json.Marshal(p)
	return data, eris.Wrap(err, "framework: encode model")
}

// DecodeModel reconstructs a model from its snapshot form. The registry is
// revalidated on load so a tampered snapshot surfaces as a data integrity
// error.
func DecodeModel(data []byte) (*Model, error) {
	var p snapshotPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrap(err, "framework: decode model")
	}

	locs := make([]model.Locality, 0, len(p.Localities))
	for _, sl := range p.Localities {
		locs = append(locs, model.Locality{
			ID: sl.ID, Name: sl.Name,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{sl.X, sl.Y}),
			Population: sl.Population, BirthRate: sl.BirthRate,
			MortalityRate: sl.MortalityRate, DistrictID: sl.DistrictID,
			MunicipalityID: sl.MunicipalityID, Services: sl.Services,
		})
	}
	reg, err := registry.New(locs, p.Districts, p.Municipalities)
	if err != nil {
		return nil, eris.Wrap(err, "framework: decode registry")
	}

	ids := make([]int64, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l.ID)
	}

	m := &Model{
		Registry:               reg,
		Graph:                  RestoreGraph(ids, p.Edges),
		Tiers:                  p.Tiers,
		CostThreshold:          p.CostThreshold,
		AgglomerationThreshold: p.AgglomerationThreshold,
		RadiusPerCostUnit:      p.RadiusPerCostUnit,
	}
	for _, sa := range p.Agglomerations {
		agg := model.Agglomeration{
			ID: sa.ID, Name: sa.Name, CoreID: sa.CoreID, CoreTier: sa.CoreTier,
			CoreIDs: sa.CoreIDs, MemberIDs: sa.MemberIDs,
			Population: sa.Population, Level: sa.Level, Polycentric: sa.Polycentric,
		}
		if len(sa.Boundary) >= 8 {
			agg.Boundary = geom.NewPolygonFlat(geom.XY, sa.Boundary, []int{len(sa.Boundary)})
		}
		m.Agglomerations = append(m.Agglomerations, agg)
	}
	return m, nil
}
