package geometry

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
)

// cross returns the z-component of (b-a) × (c-a).
func cross(a, b, c geom.Coord) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// ConvexHull computes the convex hull of the given coordinates using the
// Andrew monotone chain algorithm. The result is a closed counterclockwise
// ring (first coordinate repeated last). Degenerate inputs (fewer than three
// distinct points) return nil.
func ConvexHull(coords []geom.Coord) []geom.Coord {
	pts := make([]geom.Coord, len(coords))
	copy(pts, coords)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	// Dedupe after sorting.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p[0] != uniq[len(uniq)-1][0] || p[1] != uniq[len(uniq)-1][1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return nil
	}

	var lower, upper []geom.Coord
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}
	hull = append(hull, hull[0])
	return hull
}

// HullPolygon builds a go-geom Polygon from the convex hull of the
// coordinates, or nil when the hull is degenerate.
func HullPolygon(coords []geom.Coord) *geom.Polygon {
	ring := ConvexHull(coords)
	if ring == nil {
		return nil
	}
	flat := make([]float64, 0, len(ring)*2)
	for _, c := range ring {
		flat = append(flat, c[0], c[1])
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// PadPoint returns sample coordinates on a circle of the given radius around
// the center, plus the center itself. Used to approximate buffered points
// before hull construction.
func PadPoint(center geom.Coord, radius float64, samples int) []geom.Coord {
	if radius <= 0 || samples <= 0 {
		return []geom.Coord{center}
	}
	out := make([]geom.Coord, 0, samples+1)
	out = append(out, center)
	for i := 0; i < samples; i++ {
		angle := 2 * math.Pi * float64(i) / float64(samples)
		out = append(out, geom.Coord{
			center[0] + radius*math.Cos(angle),
			center[1] + radius*math.Sin(angle),
		})
	}
	return out
}

// PolygonsOverlap reports whether two convex polygons overlap: a vertex of one
// lies inside the other, or any boundary segments intersect.
func PolygonsOverlap(a, b *geom.Polygon) bool {
	if a == nil || b == nil || a.NumLinearRings() == 0 || b.NumLinearRings() == 0 {
		return false
	}
	ra, rb := a.LinearRing(0).Coords(), b.LinearRing(0).Coords()
	for _, c := range ra {
		if PointInRing(c, rb) {
			return true
		}
	}
	for _, c := range rb {
		if PointInRing(c, ra) {
			return true
		}
	}
	for i := 0; i+1 < len(ra); i++ {
		for j := 0; j+1 < len(rb); j++ {
			if segmentsIntersect(ra[i], ra[i+1], rb[j], rb[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 geom.Coord) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
