package framework

import (
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// Model bundles a built framework: the registry it was derived from, the
// graph, the tier assignment, and the detected agglomerations, together with
// the thresholds they were built under. A Model is an explicit immutable
// value passed into evaluation calls; multiple independent region models may
// coexist in one process.
type Model struct {
	Registry       *registry.Registry
	Graph          *Graph
	Tiers          map[int64]model.Tier
	Agglomerations []model.Agglomeration

	CostThreshold          float64
	AgglomerationThreshold float64
	// RadiusPerCostUnit converts leftover accessibility budget (cost units)
	// into meters for boundary derivation and membership fallbacks.
	RadiusPerCostUnit float64
}

// Tier returns the assigned tier for a locality, defaulting to rural for
// unclassified IDs.
func (m *Model) Tier(id int64) model.Tier {
	if t, ok := m.Tiers[id]; ok {
		return t
	}
	return model.TierRural
}

// LocalitiesAtTier returns IDs classified exactly at the tier, ascending.
func (m *Model) LocalitiesAtTier(t model.Tier) []int64 {
	var out []int64
	for _, id := range m.Registry.IDs() {
		if m.Tier(id) == t {
			out = append(out, id)
		}
	}
	return out
}

// AgglomerationOf returns the agglomeration containing the locality, if any.
func (m *Model) AgglomerationOf(localityID int64) (*model.Agglomeration, bool) {
	for i := range m.Agglomerations {
		if m.Agglomerations[i].Contains(localityID) {
			return &m.Agglomerations[i], true
		}
	}
	return nil, false
}
