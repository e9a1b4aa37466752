// Package geometry provides planar helpers over go-geom types: distances,
// containment tests, convex hulls, and extent math. All coordinates are
// assumed to be in a projected CRS with meter units.
package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Dist returns the Euclidean distance between two coordinates.
func Dist(a, b geom.Coord) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

// pointSegmentDistance returns the distance from p to the segment [a, b].
func pointSegmentDistance(p, a, b geom.Coord) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	segLen2 := dx*dx + dy*dy
	if segLen2 == 0 {
		return Dist(p, a)
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / segLen2
	t = math.Max(0, math.Min(1, t))
	return Dist(p, geom.Coord{a[0] + t*dx, a[1] + t*dy})
}

// PointInRing reports whether p lies inside the ring (ray casting).
// Points exactly on the boundary may fall on either side.
func PointInRing(p geom.Coord, ring []geom.Coord) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > p[1]) != (yj > p[1]) &&
			p[0] < (xj-xi)*(p[1]-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// PointInPolygon reports whether p lies inside the polygon, honoring holes.
func PointInPolygon(p geom.Coord, poly *geom.Polygon) bool {
	if poly == nil || poly.NumLinearRings() == 0 {
		return false
	}
	if !PointInRing(p, poly.LinearRing(0).Coords()) {
		return false
	}
	for i := 1; i < poly.NumLinearRings(); i++ {
		if PointInRing(p, poly.LinearRing(i).Coords()) {
			return false
		}
	}
	return true
}

// PointInMultiPolygon reports whether p lies inside any polygon of mp.
func PointInMultiPolygon(p geom.Coord, mp *geom.MultiPolygon) bool {
	if mp == nil {
		return false
	}
	for i := 0; i < mp.NumPolygons(); i++ {
		if PointInPolygon(p, mp.Polygon(i)) {
			return true
		}
	}
	return false
}

// ringDistance returns the minimum distance from p to the ring boundary.
func ringDistance(p geom.Coord, ring []geom.Coord) float64 {
	min := math.Inf(1)
	n := len(ring)
	for i := 0; i < n; i++ {
		d := pointSegmentDistance(p, ring[i], ring[(i+1)%n])
		if d < min {
			min = d
		}
	}
	return min
}

// PointPolygonDistance returns the distance from p to the polygon:
// zero when p is inside, otherwise the distance to the nearest boundary point.
func PointPolygonDistance(p geom.Coord, poly *geom.Polygon) float64 {
	if poly == nil || poly.NumLinearRings() == 0 {
		return math.Inf(1)
	}
	if PointInPolygon(p, poly) {
		return 0
	}
	min := math.Inf(1)
	for i := 0; i < poly.NumLinearRings(); i++ {
		if d := ringDistance(p, poly.LinearRing(i).Coords()); d < min {
			min = d
		}
	}
	return min
}

// GeomPointDistance returns the minimum distance from an arbitrary territory
// geometry to a point coordinate. Supported geometries: Point, MultiPoint,
// LineString, Polygon, MultiPolygon. Unsupported types yield +Inf.
func GeomPointDistance(g geom.T, p geom.Coord) float64 {
	switch t := g.(type) {
	case *geom.Point:
		return Dist(geom.Coord{t.X(), t.Y()}, p)
	case *geom.MultiPoint:
		min := math.Inf(1)
		for _, c := range t.Coords() {
			if d := Dist(c, p); d < min {
				min = d
			}
		}
		return min
	case *geom.LineString:
		coords := t.Coords()
		min := math.Inf(1)
		for i := 0; i+1 < len(coords); i++ {
			if d := pointSegmentDistance(p, coords[i], coords[i+1]); d < min {
				min = d
			}
		}
		return min
	case *geom.Polygon:
		return PointPolygonDistance(p, t)
	case *geom.MultiPolygon:
		min := math.Inf(1)
		for i := 0; i < t.NumPolygons(); i++ {
			if d := PointPolygonDistance(p, t.Polygon(i)); d < min {
				min = d
			}
		}
		return min
	default:
		return math.Inf(1)
	}
}

// Centroid returns the arithmetic mean of the coordinates.
func Centroid(coords []geom.Coord) geom.Coord {
	if len(coords) == 0 {
		return geom.Coord{0, 0}
	}
	var sx, sy float64
	for _, c := range coords {
		sx += c[0]
		sy += c[1]
	}
	n := float64(len(coords))
	return geom.Coord{sx / n, sy / n}
}
