package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanlab/settlement-cli/internal/model"
)

func TestAggregateUnit(t *testing.T) {
	reg := fixtureFrameworkModel(t).Registry

	indicatorsUnit = "district:1"
	indicatorsMetric = "population"
	t.Cleanup(func() {
		indicatorsUnit = ""
		indicatorsMetric = ""
	})

	records, err := aggregateUnit(reg)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.UnitDistrict, records[0].UnitKind)
	assert.InDelta(t, 52300.0, records[0].Value, 1e-9)

	indicatorsMetric = ""
	records, err = aggregateUnit(reg)
	require.NoError(t, err)
	assert.Len(t, records, len(model.KnownMetrics))
}

func TestAggregateUnitErrors(t *testing.T) {
	reg := fixtureFrameworkModel(t).Registry

	tests := []struct {
		name   string
		unit   string
		metric string
	}{
		{name: "missing colon", unit: "district1"},
		{name: "bad kind", unit: "province:1"},
		{name: "bad id", unit: "district:one"},
		{name: "unknown metric", unit: "district:1", metric: "density"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicatorsUnit = tt.unit
			indicatorsMetric = tt.metric
			t.Cleanup(func() {
				indicatorsUnit = ""
				indicatorsMetric = ""
			})

			_, err := aggregateUnit(reg)
			assert.Error(t, err)
		})
	}
}
