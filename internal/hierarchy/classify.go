// Package hierarchy assigns settlement tiers to localities from a composite
// of population, service presence, and framework-graph centrality.
package hierarchy

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// Weights holds the composite-score component weights. The assignment is
// monotonic: raising any of population, services, or centrality never lowers
// a locality's tier.
type Weights struct {
	Population float64 `yaml:"population" mapstructure:"population"`
	Services   float64 `yaml:"services" mapstructure:"services"`
	Centrality float64 `yaml:"centrality" mapstructure:"centrality"`
}

// DefaultWeights returns the standard component weighting.
func DefaultWeights() Weights {
	return Weights{Population: 0.5, Services: 0.2, Centrality: 0.3}
}

// Validate checks weight sanity.
func (w Weights) Validate() error {
	if w.Population < 0 || w.Services < 0 || w.Centrality < 0 {
		return eris.Wrap(model.ErrConfiguration, "hierarchy: weights must be >= 0")
	}
	if w.Population+w.Services+w.Centrality <= 0 {
		return eris.Wrap(model.ErrConfiguration, "hierarchy: weight sum must be > 0")
	}
	return nil
}

// Cutpoints maps composite scores in [0,1] to tiers. A score at or above a
// cutpoint earns that tier.
type Cutpoints struct {
	RegionalCenter float64 `yaml:"regional_center" mapstructure:"regional_center"`
	DistrictCenter float64 `yaml:"district_center" mapstructure:"district_center"`
	LocalCenter    float64 `yaml:"local_center" mapstructure:"local_center"`
}

// DefaultCutpoints returns the standard tier cutpoints.
func DefaultCutpoints() Cutpoints {
	return Cutpoints{RegionalCenter: 0.75, DistrictCenter: 0.5, LocalCenter: 0.25}
}

// Validate checks that cutpoints descend within (0,1].
func (c Cutpoints) Validate() error {
	if c.RegionalCenter <= 0 || c.RegionalCenter > 1 {
		return eris.Wrap(model.ErrConfiguration, "hierarchy: regional_center cutpoint must be in (0,1]")
	}
	if c.DistrictCenter <= 0 || c.DistrictCenter >= c.RegionalCenter {
		return eris.Wrap(model.ErrConfiguration, "hierarchy: district_center cutpoint must be in (0, regional_center)")
	}
	if c.LocalCenter <= 0 || c.LocalCenter >= c.DistrictCenter {
		return eris.Wrap(model.ErrConfiguration, "hierarchy: local_center cutpoint must be in (0, district_center)")
	}
	return nil
}

// Score is the per-locality classification breakdown.
type Score struct {
	LocalityID int64   `json:"locality_id"`
	Composite  float64 `json:"composite"`
	Population float64 `json:"population_norm"`
	Services   float64 `json:"services_norm"`
	Centrality float64 `json:"centrality_norm"`
	Tier       model.Tier `json:"tier"`
}

// Result carries the tier mapping plus the underlying scores for reporting.
type Result struct {
	Tiers  map[int64]model.Tier
	Scores []Score // sorted by composite desc, tie-broken by population then ID
}

// Classify assigns a tier to every registry locality. Isolated nodes are
// capped at the local-center tier since they lack framework connectivity.
func Classify(reg *registry.Registry, g *framework.Graph, w Weights, cuts Cutpoints) (*Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := cuts.Validate(); err != nil {
		return nil, err
	}

	ids := reg.IDs()
	res := &Result{Tiers: make(map[int64]model.Tier, len(ids))}
	if len(ids) == 0 {
		return res, nil
	}

	// Normalization baselines over the full locality set.
	var maxLogPop, maxCent float64
	for _, id := range ids {
		loc, _ := reg.Locality(id)
		if lp := math.Log10(1 + float64(loc.Population)); lp > maxLogPop {
			maxLogPop = lp
		}
		if c := g.WeightedDegree(id); c > maxCent {
			maxCent = c
		}
	}

	wSum := w.Population + w.Services + w.Centrality
	for _, id := range ids {
		loc, _ := reg.Locality(id)

		s := Score{LocalityID: id}
		if maxLogPop > 0 {
			s.Population = math.Log10(1+float64(loc.Population)) / maxLogPop
		}
		s.Services = float64(loc.Services.Count()) / model.ServiceKinds
		if maxCent > 0 {
			s.Centrality = g.WeightedDegree(id) / maxCent
		}
		s.Composite = (w.Population*s.Population + w.Services*s.Services + w.Centrality*s.Centrality) / wSum

		switch {
		case s.Composite >= cuts.RegionalCenter:
			s.Tier = model.TierRegionalCenter
		case s.Composite >= cuts.DistrictCenter:
			s.Tier = model.TierDistrictCenter
		case s.Composite >= cuts.LocalCenter:
			s.Tier = model.TierLocalCenter
		default:
			s.Tier = model.TierRural
		}

		// No framework connectivity justifies no administrative tier.
		if g.Degree(id) == 0 && s.Tier > model.TierLocalCenter {
			s.Tier = model.TierLocalCenter
		}

		res.Tiers[id] = s.Tier
		res.Scores = append(res.Scores, s)
	}

	sortScores(reg, res.Scores)

	zap.L().Debug("hierarchy: classification complete",
		zap.Int("localities", len(ids)),
		zap.Int("regional_centers", countTier(res.Tiers, model.TierRegionalCenter)),
		zap.Int("district_centers", countTier(res.Tiers, model.TierDistrictCenter)),
	)
	return res, nil
}

// sortScores orders scores by composite descending; equal composites resolve
// by population, then by ascending locality ID. Never by map iteration order.
func sortScores(reg *registry.Registry, scores []Score) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Composite != scores[j].Composite {
			return scores[i].Composite > scores[j].Composite
		}
		li, _ := reg.Locality(scores[i].LocalityID)
		lj, _ := reg.Locality(scores[j].LocalityID)
		if li.Population != lj.Population {
			return li.Population > lj.Population
		}
		return scores[i].LocalityID < scores[j].LocalityID
	})
}

func countTier(tiers map[int64]model.Tier, t model.Tier) int {
	n := 0
	for _, tier := range tiers {
		if tier == t {
			n++
		}
	}
	return n
}
