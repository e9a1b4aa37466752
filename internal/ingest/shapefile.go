package ingest

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Boundary is one named multipolygon read from a boundary shapefile.
type Boundary struct {
	Name     string
	Geometry *geom.MultiPolygon
}

// ReadBoundaries reads administrative boundaries from a shapefile. nameField
// selects the attribute carrying the unit name; matching is case-insensitive.
// Records with unsupported or empty geometry are skipped.
func ReadBoundaries(shpPath, nameField string) ([]Boundary, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	nameIdx := -1
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("ingest: shapefile %s has no field %q", shpPath, nameField)
	}

	var out []Boundary
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		mp := polygonToMultiPolygon(poly)
		if mp == nil {
			skipped++
			continue
		}

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		out = append(out, Boundary{Name: name, Geometry: mp})
	}

	if skipped > 0 {
		zap.L().Debug("ingest: skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
		)
	}
	return out, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) *geom.MultiPolygon {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// AttachBoundaries matches shapefile boundaries to units by name and sets
// their geometry. Returns the number of units matched. Name comparison is
// case-insensitive and ignores surrounding whitespace.
func AttachBoundaries[T any](units []T, boundaries []Boundary, name func(*T) string, set func(*T, *geom.MultiPolygon)) int {
	index := make(map[string]*geom.MultiPolygon, len(boundaries))
	for _, b := range boundaries {
		index[strings.ToLower(strings.TrimSpace(b.Name))] = b.Geometry
	}

	matched := 0
	for i := range units {
		key := strings.ToLower(strings.TrimSpace(name(&units[i])))
		if mp, ok := index[key]; ok {
			set(&units[i], mp)
			matched++
		}
	}
	return matched
}
