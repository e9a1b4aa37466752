package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
)

// Extent is an axis-aligned bounding box.
type Extent struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyExtent returns an extent that contains nothing and absorbs any point.
func EmptyExtent() Extent {
	return Extent{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// IsEmpty reports whether the extent has absorbed no points.
func (e Extent) IsEmpty() bool { return e.MinX > e.MaxX }

// Extend grows the extent to include the coordinate.
func (e Extent) Extend(c geom.Coord) Extent {
	return Extent{
		MinX: math.Min(e.MinX, c[0]),
		MinY: math.Min(e.MinY, c[1]),
		MaxX: math.Max(e.MaxX, c[0]),
		MaxY: math.Max(e.MaxY, c[1]),
	}
}

// ExtendGeom grows the extent to include the geometry's bounds.
func (e Extent) ExtendGeom(g geom.T) Extent {
	if g == nil {
		return e
	}
	b := g.Bounds()
	e = e.Extend(geom.Coord{b.Min(0), b.Min(1)})
	return e.Extend(geom.Coord{b.Max(0), b.Max(1)})
}

// Pad returns the extent grown by m meters on every side.
func (e Extent) Pad(m float64) Extent {
	if e.IsEmpty() {
		return e
	}
	return Extent{MinX: e.MinX - m, MinY: e.MinY - m, MaxX: e.MaxX + m, MaxY: e.MaxY + m}
}

// Intersects reports whether two extents overlap.
func (e Extent) Intersects(o Extent) bool {
	if e.IsEmpty() || o.IsEmpty() {
		return false
	}
	return e.MinX <= o.MaxX && o.MinX <= e.MaxX && e.MinY <= o.MaxY && o.MinY <= e.MaxY
}

// GeomExtent returns the extent of a single geometry.
func GeomExtent(g geom.T) Extent {
	return EmptyExtent().ExtendGeom(g)
}
