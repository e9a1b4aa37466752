package hierarchy

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/matrix"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

func pt(x, y float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{x, y})
}

func fullServices() model.Services {
	return model.Services{School: true, Healthcare: true, Retail: true, Culture: true, PostOffice: true, Transport: true}
}

// buildFixture creates a small region: one dominant city, one district town,
// one connected village, and one isolated large town.
func buildFixture(t *testing.T) (*registry.Registry, *framework.Graph) {
	t.Helper()
	reg, err := registry.New(
		[]model.Locality{
			{ID: 1, Name: "Capital", Geometry: pt(0, 0), Population: 800_000, DistrictID: 1, MunicipalityID: 10, Services: fullServices()},
			{ID: 2, Name: "Townsville", Geometry: pt(20000, 0), Population: 40_000, DistrictID: 1, MunicipalityID: 10, Services: model.Services{School: true, Healthcare: true, Retail: true}},
			{ID: 3, Name: "Village", Geometry: pt(25000, 5000), Population: 800, DistrictID: 1, MunicipalityID: 10, Services: model.Services{School: true}},
			{ID: 4, Name: "Isolated", Geometry: pt(900000, 0), Population: 300_000, DistrictID: 1, MunicipalityID: 10, Services: fullServices()},
		},
		[]model.District{{ID: 1}},
		[]model.Municipality{{ID: 10, DistrictID: 1}},
	)
	require.NoError(t, err)

	m, err := matrix.New([]model.AccessibilityEdge{
		{FromID: 1, ToID: 2, Cost: 25},
		{FromID: 2, ToID: 1, Cost: 25},
		{FromID: 2, ToID: 3, Cost: 15},
		{FromID: 3, ToID: 2, Cost: 15},
		{FromID: 1, ToID: 3, Cost: 38},
		{FromID: 3, ToID: 1, Cost: 38},
	})
	require.NoError(t, err)

	g, err := framework.Build(reg, m, framework.Options{CostThreshold: 40})
	require.NoError(t, err)
	return reg, g
}

func TestClassify(t *testing.T) {
	reg, g := buildFixture(t)

	res, err := Classify(reg, g, DefaultWeights(), DefaultCutpoints())
	require.NoError(t, err)

	assert.Equal(t, model.TierRegionalCenter, res.Tiers[1], "dominant connected city")
	assert.True(t, res.Tiers[2].AtLeast(model.TierDistrictCenter), "district town")
	assert.True(t, res.Tiers[1] > res.Tiers[3], "village ranks below the capital")
	assert.Equal(t, int64(1), res.Scores[0].LocalityID, "capital has the top composite")
}

func TestClassifyIsolatedCap(t *testing.T) {
	reg, g := buildFixture(t)

	res, err := Classify(reg, g, DefaultWeights(), DefaultCutpoints())
	require.NoError(t, err)

	require.Equal(t, 0, g.Degree(4))
	assert.Equal(t, model.TierLocalCenter, res.Tiers[4],
		"isolated node capped at local center despite large population")
}

func TestClassifyMonotonicInPopulation(t *testing.T) {
	reg, g := buildFixture(t)

	res, err := Classify(reg, g, DefaultWeights(), DefaultCutpoints())
	require.NoError(t, err)

	var capital, village Score
	for _, s := range res.Scores {
		switch s.LocalityID {
		case 1:
			capital = s
		case 3:
			village = s
		}
	}
	assert.Greater(t, capital.Composite, village.Composite)
}

func TestClassifyDeterministicTieBreak(t *testing.T) {
	// Two identical localities: tie resolves by ID, not map order.
	reg, err := registry.New(
		[]model.Locality{
			{ID: 7, Name: "TwinB", Geometry: pt(0, 0), Population: 5000, DistrictID: 1, MunicipalityID: 10},
			{ID: 3, Name: "TwinA", Geometry: pt(100, 0), Population: 5000, DistrictID: 1, MunicipalityID: 10},
		},
		[]model.District{{ID: 1}},
		[]model.Municipality{{ID: 10, DistrictID: 1}},
	)
	require.NoError(t, err)

	m, err := matrix.New([]model.AccessibilityEdge{
		{FromID: 3, ToID: 7, Cost: 5},
		{FromID: 7, ToID: 3, Cost: 5},
	})
	require.NoError(t, err)

	g, err := framework.Build(reg, m, framework.Options{CostThreshold: 10})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		res, err := Classify(reg, g, DefaultWeights(), DefaultCutpoints())
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.Scores[0].LocalityID)
		assert.Equal(t, int64(7), res.Scores[1].LocalityID)
	}
}

func TestClassifyConfigErrors(t *testing.T) {
	reg, g := buildFixture(t)

	tests := []struct {
		name string
		w    Weights
		c    Cutpoints
	}{
		{name: "negative weight", w: Weights{Population: -1, Services: 1, Centrality: 1}, c: DefaultCutpoints()},
		{name: "zero weight sum", w: Weights{}, c: DefaultCutpoints()},
		{name: "cutpoints out of order", w: DefaultWeights(), c: Cutpoints{RegionalCenter: 0.3, DistrictCenter: 0.5, LocalCenter: 0.2}},
		{name: "cutpoint above one", w: DefaultWeights(), c: Cutpoints{RegionalCenter: 1.5, DistrictCenter: 0.5, LocalCenter: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(reg, g, tt.w, tt.c)
			require.Error(t, err)
			assert.True(t, eris.Is(err, model.ErrConfiguration))
		})
	}
}

func TestClassifyEmptyRegistry(t *testing.T) {
	reg, err := registry.New(nil, nil, nil)
	require.NoError(t, err)
	m, err := matrix.New(nil)
	require.NoError(t, err)
	g, err := framework.Build(reg, m, framework.Options{CostThreshold: 10})
	require.NoError(t, err)

	res, err := Classify(reg, g, DefaultWeights(), DefaultCutpoints())
	require.NoError(t, err)
	assert.Empty(t, res.Tiers)
	assert.Empty(t, res.Scores)
}
