package agglomeration

import (
	"sort"

	geom "github.com/twpayne/go-geom"

	"github.com/urbanlab/settlement-cli/internal/geometry"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// padSegments controls how many points approximate each member's
// accessibility disc before hulling.
const padSegments = 16

// boundary derives the cluster outline: each member contributes a disc
// sized by its leftover travel budget, and the convex hull of all disc
// points closes the shape. Degenerate clusters (fewer than three distinct
// points) yield nil.
func boundary(reg *registry.Registry, ids []int64, best map[int64]assignment, budget float64, opts Options) *geom.Polygon {
	var pts []geom.Coord
	for _, id := range ids {
		loc, ok := reg.Locality(id)
		if !ok {
			continue
		}
		c := loc.Coord()
		leftover := budget - best[id].pathCost
		if leftover < 0 {
			leftover = 0
		}
		radius := leftover * opts.RadiusPerCostUnit
		if radius <= 0 {
			pts = append(pts, c)
			continue
		}
		pts = append(pts, geometry.PadPoint(c, radius, padSegments)...)
	}
	return geometry.HullPolygon(pts)
}

// mergeOverlapping folds clusters whose boundaries overlap into polycentric
// agglomerations. Merging is transitive and order-independent: clusters are
// grouped by connected components of the overlap relation.
func mergeOverlapping(reg *registry.Registry, clusters []model.Agglomeration) []model.Agglomeration {
	n := len(clusters)
	if n < 2 {
		return clusters
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			if ra > rb {
				ra, rb = rb, ra
			}
			parent[rb] = ra
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if clusters[i].Boundary == nil || clusters[j].Boundary == nil {
				continue
			}
			if geometry.PolygonsOverlap(clusters[i].Boundary, clusters[j].Boundary) {
				union(i, j)
			}
		}
	}

	groups := map[int][]int{}
	for i := 0; i < n; i++ {
		r := find(i)
		groups[r] = append(groups[r], i)
	}
	if len(groups) == n {
		return clusters
	}

	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	sort.Ints(roots)

	var out []model.Agglomeration
	var nextID int64 = 1
	for _, r := range roots {
		idx := groups[r]
		if len(idx) == 1 {
			agg := clusters[idx[0]]
			agg.ID = nextID
			out = append(out, agg)
			nextID++
			continue
		}
		out = append(out, mergeGroup(reg, clusters, idx, nextID))
		nextID++
	}
	return out
}

// mergeGroup joins the indexed clusters into one polycentric agglomeration.
// The primary core is the highest-tier, then most populous, then lowest-ID
// one; the merged boundary is the hull of all member boundaries.
func mergeGroup(reg *registry.Registry, clusters []model.Agglomeration, idx []int, id int64) model.Agglomeration {
	primary := clusters[idx[0]]
	for _, i := range idx[1:] {
		c := clusters[i]
		better := c.CoreTier > primary.CoreTier
		if c.CoreTier == primary.CoreTier {
			cp := corePopulation(reg, c.CoreID)
			pp := corePopulation(reg, primary.CoreID)
			better = cp > pp || (cp == pp && c.CoreID < primary.CoreID)
		}
		if better {
			primary = c
		}
	}

	merged := model.Agglomeration{
		ID:          id,
		Name:        primary.Name,
		CoreID:      primary.CoreID,
		CoreTier:    primary.CoreTier,
		Polycentric: true,
	}

	seen := map[int64]bool{}
	var hullPts []geom.Coord
	for _, i := range idx {
		c := clusters[i]
		merged.CoreIDs = append(merged.CoreIDs, c.CoreIDs...)
		for _, m := range c.MemberIDs {
			if !seen[m] {
				seen[m] = true
				merged.MemberIDs = append(merged.MemberIDs, m)
				if loc, ok := reg.Locality(m); ok {
					merged.Population += loc.Population
				}
			}
		}
		if c.Boundary != nil {
			ring := c.Boundary.LinearRing(0).FlatCoords()
			for p := 0; p+1 < len(ring); p += 2 {
				hullPts = append(hullPts, geom.Coord{ring[p], ring[p+1]})
			}
		}
	}
	sort.Slice(merged.CoreIDs, func(i, j int) bool { return merged.CoreIDs[i] < merged.CoreIDs[j] })
	sort.Slice(merged.MemberIDs, func(i, j int) bool { return merged.MemberIDs[i] < merged.MemberIDs[j] })
	merged.Level = model.AgglomerationLevel(merged.Population)
	merged.Boundary = geometry.HullPolygon(hullPts)
	return merged
}

func corePopulation(reg *registry.Registry, id int64) int {
	if loc, ok := reg.Locality(id); ok {
		return loc.Population
	}
	return 0
}
