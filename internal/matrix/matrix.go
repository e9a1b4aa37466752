// Package matrix provides the accessibility matrix: pairwise travel costs
// between localities, consumed as precomputed input and never derived here.
package matrix

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/urbanlab/settlement-cli/internal/model"
)

type pair struct {
	from, to int64
}

// Matrix stores directed pairwise travel costs. Asymmetric costs are
// tolerated; a missing reverse direction is not an error.
type Matrix struct {
	costs map[pair]float64
}

// New builds a Matrix from accessibility edges. Negative costs and self
// entries with non-zero cost are rejected.
func New(edges []model.AccessibilityEdge) (*Matrix, error) {
	m := &Matrix{costs: make(map[pair]float64, len(edges))}
	for _, e := range edges {
		if e.Cost < 0 {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"matrix: negative cost %.2f for %d->%d", e.Cost, e.FromID, e.ToID)
		}
		if e.FromID == e.ToID && e.Cost != 0 {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"matrix: non-zero self cost %.2f for locality %d", e.Cost, e.FromID)
		}
		m.costs[pair{e.FromID, e.ToID}] = e.Cost
	}
	return m, nil
}

// Cost returns the directed travel cost from one locality to another.
func (m *Matrix) Cost(from, to int64) (float64, bool) {
	if from == to {
		return 0, true
	}
	c, ok := m.costs[pair{from, to}]
	return c, ok
}

// SymmetricCost returns the cheaper of the two directions, falling back to
// whichever direction is present.
func (m *Matrix) SymmetricCost(a, b int64) (float64, bool) {
	ab, okAB := m.Cost(a, b)
	ba, okBA := m.Cost(b, a)
	switch {
	case okAB && okBA:
		if ba < ab {
			return ba, true
		}
		return ab, true
	case okAB:
		return ab, true
	case okBA:
		return ba, true
	default:
		return 0, false
	}
}

// Entry is a single destination with its travel cost.
type Entry struct {
	ID   int64
	Cost float64
}

// Neighbors returns every destination reachable from the locality with cost
// at most limit, sorted by cost then ID. The locality itself is excluded.
func (m *Matrix) Neighbors(from int64, limit float64) []Entry {
	var out []Entry
	for p, c := range m.costs {
		if p.from != from || p.to == from || c > limit {
			continue
		}
		out = append(out, Entry{ID: p.to, Cost: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost < out[j].Cost
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Pairs returns every stored directed pair as accessibility edges,
// sorted by (from, to) for reproducible iteration.
func (m *Matrix) Pairs() []model.AccessibilityEdge {
	out := make([]model.AccessibilityEdge, 0, len(m.costs))
	for p, c := range m.costs {
		out = append(out, model.AccessibilityEdge{FromID: p.from, ToID: p.to, Cost: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromID != out[j].FromID {
			return out[i].FromID < out[j].FromID
		}
		return out[i].ToID < out[j].ToID
	})
	return out
}

// Len returns the number of stored directed entries.
func (m *Matrix) Len() int { return len(m.costs) }
