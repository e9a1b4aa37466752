package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanlab/settlement-cli/internal/model"
)

func TestModelSnapshotRoundTrip(t *testing.T) {
	reg := threeTownRegistry(t)
	m := threeTownMatrix(t)
	g, err := Build(reg, m, Options{CostThreshold: 20})
	require.NoError(t, err)

	fm := &Model{
		Registry:               reg,
		Graph:                  g,
		Tiers:                  map[int64]model.Tier{1: model.TierRegionalCenter},
		CostThreshold:          20,
		AgglomerationThreshold: 20,
		RadiusPerCostUnit:      500,
	}

	data, err := EncodeModel(fm)
	require.NoError(t, err)

	restored, err := DecodeModel(data)
	require.NoError(t, err)

	assert.Equal(t, reg.IDs(), restored.Registry.IDs())
	assert.Equal(t, g.Edges(), restored.Graph.Edges())
	assert.Equal(t, fm.Tiers, restored.Tiers)
	assert.Equal(t, 20.0, restored.CostThreshold)
	assert.Equal(t, model.TierRegionalCenter, restored.Tier(1))
	assert.Equal(t, model.TierRural, restored.Tier(3))

	loc, ok := restored.Registry.Locality(2)
	require.True(t, ok)
	assert.Equal(t, "B", loc.Name)
	assert.Equal(t, 2000, loc.Population)

	orig, _ := reg.Locality(2)
	assert.Equal(t, orig.Coord(), loc.Coord())
}

func TestDecodeModelRejectsBadPayload(t *testing.T) {
	_, err := DecodeModel([]byte(`{not json`))
	require.Error(t, err)

	// valid JSON but inconsistent references fail registry validation
	_, err = DecodeModel([]byte(`{"localities":[{"id":1,"name":"X","x":0,"y":0,"population":10,"district_id":9,"municipality_id":9}],"districts":[],"municipalities":[]}`))
	require.Error(t, err)
}
