package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func unitSquare() *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{0, 0, 10, 0, 10, 10, 0, 10, 0, 0}, []int{10})
}

func TestDist(t *testing.T) {
	assert.Equal(t, 5.0, Dist(geom.Coord{0, 0}, geom.Coord{3, 4}))
	assert.Equal(t, 0.0, Dist(geom.Coord{2, 2}, geom.Coord{2, 2}))
}

func TestPointInPolygon(t *testing.T) {
	poly := unitSquare()

	tests := []struct {
		name  string
		point geom.Coord
		want  bool
	}{
		{name: "center", point: geom.Coord{5, 5}, want: true},
		{name: "near corner inside", point: geom.Coord{0.1, 0.1}, want: true},
		{name: "outside right", point: geom.Coord{11, 5}, want: false},
		{name: "outside diagonal", point: geom.Coord{-1, -1}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointInPolygon(tt.point, poly))
		})
	}
}

func TestPointInPolygonWithHole(t *testing.T) {
	// 10x10 square with a 4x4 hole in the middle.
	poly := geom.NewPolygonFlat(geom.XY,
		[]float64{
			0, 0, 10, 0, 10, 10, 0, 10, 0, 0,
			3, 3, 7, 3, 7, 7, 3, 7, 3, 3,
		},
		[]int{10, 20},
	)
	assert.False(t, PointInPolygon(geom.Coord{5, 5}, poly), "inside hole")
	assert.True(t, PointInPolygon(geom.Coord{1, 5}, poly), "inside shell, outside hole")
}

func TestPointPolygonDistance(t *testing.T) {
	poly := unitSquare()
	assert.Equal(t, 0.0, PointPolygonDistance(geom.Coord{5, 5}, poly))
	assert.InDelta(t, 5.0, PointPolygonDistance(geom.Coord{15, 5}, poly), 1e-9)
	assert.InDelta(t, math.Sqrt(2), PointPolygonDistance(geom.Coord{-1, -1}, poly), 1e-9)
}

func TestGeomPointDistance(t *testing.T) {
	tests := []struct {
		name string
		g    geom.T
		p    geom.Coord
		want float64
	}{
		{
			name: "point to point",
			g:    geom.NewPointFlat(geom.XY, []float64{0, 0}),
			p:    geom.Coord{3, 4},
			want: 5,
		},
		{
			name: "linestring nearest segment",
			g:    geom.NewLineStringFlat(geom.XY, []float64{0, 0, 10, 0}),
			p:    geom.Coord{5, 3},
			want: 3,
		},
		{
			name: "polygon containing point",
			g:    unitSquare(),
			p:    geom.Coord{5, 5},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GeomPointDistance(tt.g, tt.p), 1e-9)
		})
	}
}

func TestConvexHull(t *testing.T) {
	coords := []geom.Coord{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {2, 3}, {7, 8}, // interior points must be dropped
	}
	hull := ConvexHull(coords)
	require.NotNil(t, hull)
	assert.Equal(t, hull[0], hull[len(hull)-1], "ring must be closed")
	assert.Len(t, hull, 5, "square hull: 4 corners + closing point")

	for _, c := range []geom.Coord{{5, 5}, {2, 3}} {
		assert.True(t, PointInRing(c, hull))
	}
}

func TestConvexHullDegenerate(t *testing.T) {
	assert.Nil(t, ConvexHull(nil))
	assert.Nil(t, ConvexHull([]geom.Coord{{1, 1}}))
	assert.Nil(t, ConvexHull([]geom.Coord{{1, 1}, {2, 2}}))
	assert.Nil(t, ConvexHull([]geom.Coord{{1, 1}, {1, 1}, {1, 1}}))
}

func TestPadPoint(t *testing.T) {
	pts := PadPoint(geom.Coord{0, 0}, 100, 8)
	assert.Len(t, pts, 9)
	for _, p := range pts[1:] {
		assert.InDelta(t, 100, Dist(geom.Coord{0, 0}, p), 1e-9)
	}

	// Zero radius degrades to the center alone.
	assert.Len(t, PadPoint(geom.Coord{1, 2}, 0, 8), 1)
}

func TestPolygonsOverlap(t *testing.T) {
	a := unitSquare()
	b := geom.NewPolygonFlat(geom.XY, []float64{5, 5, 15, 5, 15, 15, 5, 15, 5, 5}, []int{10})
	c := geom.NewPolygonFlat(geom.XY, []float64{20, 20, 30, 20, 30, 30, 20, 30, 20, 20}, []int{10})

	assert.True(t, PolygonsOverlap(a, b))
	assert.False(t, PolygonsOverlap(a, c))
	assert.False(t, PolygonsOverlap(nil, a))
}

func TestExtent(t *testing.T) {
	e := EmptyExtent()
	assert.True(t, e.IsEmpty())

	e = e.Extend(geom.Coord{1, 2}).Extend(geom.Coord{5, -3})
	assert.False(t, e.IsEmpty())
	assert.Equal(t, Extent{MinX: 1, MinY: -3, MaxX: 5, MaxY: 2}, e)

	other := EmptyExtent().Extend(geom.Coord{4, 0})
	assert.True(t, e.Intersects(other))

	far := EmptyExtent().Extend(geom.Coord{100, 100})
	assert.False(t, e.Intersects(far))
	assert.True(t, e.Pad(200).Intersects(far))
}
