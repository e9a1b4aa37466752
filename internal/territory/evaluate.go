// Package territory grades arbitrary geometries against a built settlement
// framework model.
package territory

import (
	"math"

	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/geometry"
	"github.com/urbanlab/settlement-cli/internal/model"
)

// candidate is a classified locality with its distance to the territory.
type candidate struct {
	id    int64
	name  string
	coord geom.Coord
	dist  float64
}

// Evaluate scores a territory geometry against the framework model. The call
// is read-only over the model and safe to run concurrently.
func Evaluate(m *framework.Model, g geom.T) (model.TerritoryScore, error) {
	score := model.TerritoryScore{Geometry: g}
	if g == nil || len(g.FlatCoords()) == 0 {
		return score, eris.Wrap(model.ErrInvalidGeometry, "territory: nil or empty geometry")
	}

	byTier := map[model.Tier][]candidate{}
	for _, id := range m.Registry.IDs() {
		loc, _ := m.Registry.Locality(id)
		pos := loc.Coord()
		c := candidate{
			id:    id,
			name:  loc.Name,
			coord: pos,
			dist:  geometry.GeomPointDistance(g, pos),
		}
		if math.IsInf(c.dist, 1) {
			return score, eris.Wrapf(model.ErrInvalidGeometry,
				"territory: unsupported geometry type %T", g)
		}
		tier := m.Tier(id)
		byTier[tier] = append(byTier[tier], c)
	}

	score.NearestByTier = map[model.Tier]model.NearestLocality{}
	for tier, cands := range byTier {
		best := cands[0]
		for _, c := range cands[1:] {
			if c.dist < best.dist || (c.dist == best.dist && c.id < best.id) {
				best = c
			}
		}
		score.NearestByTier[tier] = model.NearestLocality{
			LocalityID: best.id,
			Name:       best.name,
			Distance:   best.dist,
		}
	}

	score.OutOfRegion = !m.Registry.Extent().Intersects(geometry.GeomExtent(g))
	markAgglomeration(m, g, &score)

	score.LocationScore, score.Interpretation, score.ReferenceLocalities = locate(byTier)

	zap.L().Debug("territory: evaluated",
		zap.Int("location_score", score.LocationScore),
		zap.Bool("out_of_region", score.OutOfRegion),
		zap.Bool("in_agglomeration", score.InAgglomeration),
	)
	return score, nil
}

// markAgglomeration flags membership: boundary containment of any territory
// vertex, or a core within the accessibility radius.
func markAgglomeration(m *framework.Model, g geom.T, score *model.TerritoryScore) {
	radius := m.AgglomerationThreshold * m.RadiusPerCostUnit
	for i := range m.Agglomerations {
		agg := &m.Agglomerations[i]
		if inBoundary(g, agg.Boundary) || coreWithin(m, agg, g, radius) {
			score.InAgglomeration = true
			score.AgglomerationID = agg.ID
			score.AgglomerationName = agg.Name
			return
		}
	}
}

func inBoundary(g geom.T, boundary *geom.Polygon) bool {
	if boundary == nil {
		return false
	}
	coords := g.FlatCoords()
	stride := g.Stride()
	for i := 0; i+1 < len(coords); i += stride {
		if geometry.PointInPolygon(geom.Coord{coords[i], coords[i+1]}, boundary) {
			return true
		}
	}
	return false
}

func coreWithin(m *framework.Model, agg *model.Agglomeration, g geom.T, radius float64) bool {
	if radius <= 0 {
		return false
	}
	for _, id := range agg.CoreIDs {
		loc, ok := m.Registry.Locality(id)
		if !ok {
			continue
		}
		if geometry.GeomPointDistance(g, loc.Coord()) <= radius {
			return true
		}
	}
	return false
}
