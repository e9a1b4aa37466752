// Package agglomeration detects clusters of localities functioning as a
// single urbanized system: cost-bounded growth around core-eligible
// localities over the framework graph.
package agglomeration

import (
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// Options configures agglomeration detection.
type Options struct {
	// Threshold is the accessibility radius for cluster growth; must be > 0.
	Threshold float64
	// CoreTier is the minimum tier for a locality to seed a cluster.
	CoreTier model.Tier
	// MinCorePopulation filters out small localities from seeding even when
	// their tier qualifies.
	MinCorePopulation int
	// TierDecay shrinks the growth budget for each tier step below the
	// regional center: budget = Threshold * (1 - TierDecay*steps).
	TierDecay float64
	// RadiusPerCostUnit converts leftover budget into meters for boundary
	// derivation.
	RadiusPerCostUnit float64
	// Parallelism bounds concurrent per-core traversals; <= 0 means serial.
	Parallelism int
}

// DefaultOptions returns the standard detection parameters.
func DefaultOptions(threshold float64) Options {
	return Options{
		Threshold:         threshold,
		CoreTier:          model.TierDistrictCenter,
		MinCorePopulation: 15000,
		TierDecay:         0.125,
		RadiusPerCostUnit: 500,
		Parallelism:       4,
	}
}

// core is a seeding locality with its traversal budget.
type core struct {
	id     int64
	tier   model.Tier
	pop    int
	budget float64
}

// assignment records the winning core for a locality.
type assignment struct {
	coreID   int64
	coreTier model.Tier
	pathCost float64
}

// better reports whether a beats b under the conflict rule: lower aggregate
// path cost, then higher-tier core, then lower core ID.
func (a assignment) better(b assignment) bool {
	if a.pathCost != b.pathCost {
		return a.pathCost < b.pathCost
	}
	if a.coreTier != b.coreTier {
		return a.coreTier > b.coreTier
	}
	return a.coreID < b.coreID
}

// Detect clusters localities into agglomerations. Cluster growth runs one
// cost-capped shortest-path traversal per core; traversals are independent
// and run concurrently, with a deterministic merge afterwards. Localities
// unreachable from any core stay unassigned, which is a valid outcome.
func Detect(reg *registry.Registry, g *framework.Graph, tiers map[int64]model.Tier, opts Options) ([]model.Agglomeration, error) {
	if opts.Threshold <= 0 {
		return nil, eris.Wrapf(model.ErrConfiguration,
			"agglomeration: threshold must be > 0, got %.2f", opts.Threshold)
	}
	if !opts.CoreTier.Valid() {
		return nil, eris.Wrapf(model.ErrConfiguration, "agglomeration: invalid core tier %d", opts.CoreTier)
	}
	if opts.TierDecay < 0 || opts.TierDecay >= 1 {
		return nil, eris.Wrapf(model.ErrConfiguration, "agglomeration: tier decay must be in [0,1)")
	}

	cores := collectCores(reg, tiers, opts)
	if len(cores) == 0 {
		// Empty output is valid; only invalid configuration is an error.
		return nil, nil
	}

	// Per-core traversals.
	reach := make([]map[int64]float64, len(cores))
	grp := errgroup.Group{}
	if opts.Parallelism > 0 {
		grp.SetLimit(opts.Parallelism)
	} else {
		grp.SetLimit(1)
	}
	var mu sync.Mutex
	for i := range cores {
		i := i
		grp.Go(func() error {
			dist := g.ShortestPathCosts(cores[i].id, opts.Threshold, cores[i].budget)
			mu.Lock()
			reach[i] = dist
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait() // traversals never fail

	// Deterministic merge: iterate cores in seeding order, localities sorted.
	best := map[int64]assignment{}
	for i, c := range cores {
		for id, cost := range reach[i] {
			cand := assignment{coreID: c.id, coreTier: c.tier, pathCost: cost}
			if cur, ok := best[id]; !ok || cand.better(cur) {
				best[id] = cand
			}
		}
	}

	clusters := buildClusters(reg, tiers, cores, best, opts)
	clusters = mergeOverlapping(reg, clusters)

	zap.L().Debug("agglomeration: detection complete",
		zap.Int("cores", len(cores)),
		zap.Int("agglomerations", len(clusters)),
	)
	return clusters, nil
}

// collectCores returns core-eligible localities sorted by tier descending,
// population descending, ID ascending.
func collectCores(reg *registry.Registry, tiers map[int64]model.Tier, opts Options) []core {
	var cores []core
	for _, id := range reg.IDs() {
		tier, ok := tiers[id]
		if !ok || !tier.AtLeast(opts.CoreTier) {
			continue
		}
		loc, _ := reg.Locality(id)
		if loc.Population < opts.MinCorePopulation {
			continue
		}
		steps := float64(model.TierRegionalCenter - tier)
		budget := opts.Threshold * (1 - opts.TierDecay*steps)
		if budget <= 0 {
			continue
		}
		cores = append(cores, core{id: id, tier: tier, pop: loc.Population, budget: budget})
	}
	sort.Slice(cores, func(i, j int) bool {
		if cores[i].tier != cores[j].tier {
			return cores[i].tier > cores[j].tier
		}
		if cores[i].pop != cores[j].pop {
			return cores[i].pop > cores[j].pop
		}
		return cores[i].id < cores[j].id
	})
	return cores
}

// buildClusters groups assigned localities per core and derives attributes.
func buildClusters(reg *registry.Registry, tiers map[int64]model.Tier, cores []core, best map[int64]assignment, opts Options) []model.Agglomeration {
	members := map[int64][]int64{}
	for id, a := range best {
		members[a.coreID] = append(members[a.coreID], id)
	}

	var out []model.Agglomeration
	var nextID int64 = 1
	for _, c := range cores {
		ids := members[c.id]
		if len(ids) == 0 {
			continue
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		coreLoc, _ := reg.Locality(c.id)
		agg := model.Agglomeration{
			ID:        nextID,
			Name:      coreLoc.Name,
			CoreID:    c.id,
			CoreTier:  c.tier,
			CoreIDs:   []int64{c.id},
			MemberIDs: ids,
		}
		for _, id := range ids {
			loc, _ := reg.Locality(id)
			agg.Population += loc.Population
		}
		agg.Level = model.AgglomerationLevel(agg.Population)
		agg.Boundary = boundary(reg, ids, best, c.budget, opts)
		out = append(out, agg)
		nextID++
	}
	return out
}
