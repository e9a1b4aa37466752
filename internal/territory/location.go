package territory

import (
	"github.com/urbanlab/settlement-cli/internal/geometry"
	"github.com/urbanlab/settlement-cli/internal/model"
)

// Location scoring constants, in meters.
const (
	regionalBuffer  = 7000
	centerBuffer    = 5000
	districtPairSep = 50000
	localPairSep    = 30000
	pairDetour      = 1.2
)

// locate grades the territory's position on a 0..5 scale with an
// interpretation and the localities that anchor the grade.
func locate(byTier map[model.Tier][]candidate) (int, string, []string) {
	if c, ok := within(byTier[model.TierRegionalCenter], regionalBuffer); ok {
		return 5, "territory lies within the service area of a regional center", []string{c.name}
	}
	if c, ok := within(byTier[model.TierDistrictCenter], centerBuffer); ok {
		return 4, "territory adjoins a district center", []string{c.name}
	}
	if c, ok := within(byTier[model.TierLocalCenter], centerBuffer); ok {
		return 3, "territory adjoins a local center", []string{c.name}
	}
	if a, b, ok := betweenPair(byTier[model.TierDistrictCenter], districtPairSep); ok {
		return 2, "territory lies on the axis between district centers", []string{a.name, b.name}
	}
	if a, b, ok := betweenPair(byTier[model.TierLocalCenter], localPairSep); ok {
		return 1, "territory lies on the axis between local centers", []string{a.name, b.name}
	}
	return 0, "territory is outside the settlement framework", nil
}

// within returns the closest candidate inside the buffer.
func within(cands []candidate, buffer float64) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range cands {
		if c.dist > buffer {
			continue
		}
		if !found || c.dist < best.dist || (c.dist == best.dist && c.id < best.id) {
			best = c
			found = true
		}
	}
	return best, found
}

// betweenPair finds two centers the territory sits between: the centers are
// at most maxSep apart, the territory is beyond the direct buffer of each,
// and the combined distance stays within the detour factor of their
// separation. The tightest qualifying pair wins.
func betweenPair(cands []candidate, maxSep float64) (candidate, candidate, bool) {
	var bestA, bestB candidate
	bestTotal := -1.0
	for i := 0; i < len(cands); i++ {
		for j := i + 1; j < len(cands); j++ {
			a, b := cands[i], cands[j]
			if a.dist <= centerBuffer || b.dist <= centerBuffer {
				continue
			}
			sep := geometry.Dist(a.coord, b.coord)
			if sep == 0 || sep > maxSep {
				continue
			}
			total := a.dist + b.dist
			if total > pairDetour*sep {
				continue
			}
			if bestTotal < 0 || total < bestTotal {
				bestA, bestB, bestTotal = a, b, total
			}
		}
	}
	if bestTotal < 0 {
		return candidate{}, candidate{}, false
	}
	if bestB.id < bestA.id {
		bestA, bestB = bestB, bestA
	}
	return bestA, bestB, true
}
