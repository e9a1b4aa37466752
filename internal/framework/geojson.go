package framework

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/urbanlab/settlement-cli/internal/model"
)

// GraphFeatureCollection renders the framework as GeoJSON: one point feature
// per locality node (with tier and population) and one linestring feature per
// edge (with cost and weight). Feature order follows canonical graph order.
func GraphFeatureCollection(m *Model) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{}

	for _, id := range m.Graph.NodeIDs() {
		loc, ok := m.Registry.Locality(id)
		if !ok {
			return nil, eris.Wrapf(model.ErrDataIntegrity, "framework: graph node %d missing from registry", id)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: loc.Geometry,
			Properties: map[string]any{
				"id":         loc.ID,
				"name":       loc.Name,
				"population": loc.Population,
				"tier":       m.Tier(id).String(),
				"degree":     m.Graph.Degree(id),
			},
		})
	}

	for _, e := range m.Graph.Edges() {
		from, _ := m.Registry.Locality(e.From)
		to, _ := m.Registry.Locality(e.To)
		line := geom.NewLineStringFlat(geom.XY, []float64{
			from.Geometry.X(), from.Geometry.Y(),
			to.Geometry.X(), to.Geometry.Y(),
		})
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: line,
			Properties: map[string]any{
				"from":   e.From,
				"to":     e.To,
				"cost":   e.Cost,
				"weight": e.Weight,
			},
		})
	}

	return fc, nil
}

// AgglomerationFeatureCollection renders detected agglomerations as GeoJSON
// polygon features with core and membership properties.
func AgglomerationFeatureCollection(m *Model) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{}
	for i := range m.Agglomerations {
		a := &m.Agglomerations[i]
		var g geom.T
		if a.Boundary != nil {
			g = a.Boundary
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: g,
			Properties: map[string]any{
				"id":          a.ID,
				"name":        a.Name,
				"core_id":     a.CoreID,
				"core_tier":   a.CoreTier.String(),
				"members":     a.MemberIDs,
				"population":  a.Population,
				"level":       a.Level,
				"polycentric": a.Polycentric,
			},
		})
	}
	return fc
}

// MarshalGeoJSON serializes a feature collection to JSON bytes.
func MarshalGeoJSON(fc *geojson.FeatureCollection) ([]byte, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return nil, eris.Wrap(err, "framework: marshal GeoJSON")
	}
	return data, nil
}
