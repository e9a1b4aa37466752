package framework

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/matrix"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// SignificanceFunc scales the edge-admission threshold for a pair of
// localities. Must return >= 1 and be monotonic in both populations:
// higher-population pairs tolerate proportionally larger travel cost.
type SignificanceFunc func(popA, popB int) float64

// DefaultGravity is the default strength of the population significance factor.
const DefaultGravity = 0.25

// DefaultSignificance returns the standard significance function:
// 1 + gravity * log10(1 + geometric-mean population) / 6, normalized so that
// a pair of million-resident cities roughly reaches 1 + gravity.
func DefaultSignificance(gravity float64) SignificanceFunc {
	return func(popA, popB int) float64 {
		gm := math.Sqrt(float64(popA) * float64(popB))
		return 1 + gravity*math.Log10(1+gm)/6
	}
}

// Options configures graph construction.
type Options struct {
	// CostThreshold is the base edge-admission limit; must be > 0.
	CostThreshold float64
	// Significance scales the threshold per locality pair.
	// Nil selects DefaultSignificance(DefaultGravity).
	Significance SignificanceFunc
}

// Build constructs the settlement framework graph: one node per registry
// locality, one undirected edge per accessibility pair whose cost is within
// the significance-scaled threshold. Pure over its inputs and deterministic:
// identical inputs yield an identical canonical edge set.
func Build(reg *registry.Registry, m *matrix.Matrix, opts Options) (*Graph, error) {
	if opts.CostThreshold <= 0 {
		return nil, eris.Wrapf(model.ErrConfiguration,
			"framework: cost threshold must be > 0, got %.2f", opts.CostThreshold)
	}
	sig := opts.Significance
	if sig == nil {
		sig = DefaultSignificance(DefaultGravity)
	}

	g := newGraph(reg.IDs())

	seen := map[[2]int64]bool{}
	for _, e := range m.Pairs() {
		if !reg.Has(e.FromID) {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"framework: accessibility entry references unknown locality %d", e.FromID)
		}
		if !reg.Has(e.ToID) {
			return nil, eris.Wrapf(model.ErrDataIntegrity,
				"framework: accessibility entry references unknown locality %d", e.ToID)
		}
		if e.FromID == e.ToID {
			continue // self loops excluded
		}

		key := [2]int64{e.FromID, e.ToID}
		if key[0] > key[1] {
			key[0], key[1] = key[1], key[0]
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		cost, ok := m.SymmetricCost(e.FromID, e.ToID)
		if !ok {
			continue
		}

		from, _ := reg.Locality(e.FromID)
		to, _ := reg.Locality(e.ToID)
		s := sig(from.Population, to.Population)
		if s < 1 {
			s = 1
		}
		if cost > opts.CostThreshold*s {
			continue
		}

		g.addEdge(Edge{From: key[0], To: key[1], Cost: cost, Weight: cost / s})
	}

	g.finalize()

	zap.L().Debug("framework: graph built",
		zap.Int("nodes", g.NumNodes()),
		zap.Int("edges", g.NumEdges()),
		zap.Float64("cost_threshold", opts.CostThreshold),
	)
	return g, nil
}
