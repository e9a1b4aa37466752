package indicator

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	geom "github.com/twpayne/go-geom"

	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

func pt(x, y float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{x, y})
}

// fixture: one district with two municipalities, one of them empty.
func fixtureRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New(
		[]model.Locality{
			{ID: 1, Name: "City", Geometry: pt(0, 0), Population: 30000,
				BirthRate: 10, MortalityRate: 14, DistrictID: 1, MunicipalityID: 10},
			{ID: 2, Name: "Town", Geometry: pt(5000, 0), Population: 10000,
				BirthRate: 8, MortalityRate: 12, DistrictID: 1, MunicipalityID: 10},
			{ID: 3, Name: "Village", Geometry: pt(9000, 0), Population: 500,
				BirthRate: 6, MortalityRate: 18, DistrictID: 1, MunicipalityID: 11},
		},
		[]model.District{{ID: 1, Name: "Central"}},
		[]model.Municipality{
			{ID: 10, Name: "Urban MO", DistrictID: 1},
			{ID: 11, Name: "Rural MO", DistrictID: 1},
			{ID: 12, Name: "Empty MO", DistrictID: 1},
		},
	)
	require.NoError(t, err)
	return reg
}

func TestAggregatePopulation(t *testing.T) {
	reg := fixtureRegistry(t)

	rec, err := Aggregate(reg, model.UnitDistrict, 1, model.MetricPopulation)
	require.NoError(t, err)
	assert.Equal(t, 40500.0, rec.Value)
	assert.Equal(t, "Central", rec.UnitName)
	assert.Equal(t, 3, rec.Localities)
	assert.False(t, rec.NoData)
}

func TestAggregateAdditivity(t *testing.T) {
	reg := fixtureRegistry(t)

	district, err := Aggregate(reg, model.UnitDistrict, 1, model.MetricPopulation)
	require.NoError(t, err)

	var sum float64
	for _, m := range reg.MunicipalitiesOf(1) {
		rec, err := Aggregate(reg, model.UnitMunicipality, m.ID, model.MetricPopulation)
		require.NoError(t, err)
		sum += rec.Value
	}
	assert.Equal(t, district.Value, sum, "district population equals the sum over its municipalities")
}

func TestAggregateWeightedRates(t *testing.T) {
	reg := fixtureRegistry(t)

	birth, err := Aggregate(reg, model.UnitMunicipality, 10, model.MetricBirthRate)
	require.NoError(t, err)
	// (10*30000 + 8*10000) / 40000
	assert.InDelta(t, 9.5, birth.Value, 1e-9)

	death, err := Aggregate(reg, model.UnitMunicipality, 10, model.MetricMortalityRate)
	require.NoError(t, err)
	// (14*30000 + 12*10000) / 40000
	assert.InDelta(t, 13.5, death.Value, 1e-9)
}

func TestAggregateUrbanization(t *testing.T) {
	reg := fixtureRegistry(t)

	rec, err := Aggregate(reg, model.UnitDistrict, 1, model.MetricUrbanization)
	require.NoError(t, err)
	// only City (30000) clears the urban threshold out of 40500 total
	assert.InDelta(t, 30000.0/40500.0, rec.Value, 1e-9)
}

func TestAggregateNoData(t *testing.T) {
	reg := fixtureRegistry(t)

	rec, err := Aggregate(reg, model.UnitMunicipality, 12, model.MetricPopulation)
	require.NoError(t, err)
	assert.True(t, rec.NoData)
	assert.Zero(t, rec.Value)
	assert.Zero(t, rec.Localities)
}

func TestAggregateErrors(t *testing.T) {
	reg := fixtureRegistry(t)

	_, err := Aggregate(reg, model.UnitDistrict, 1, model.Metric("density"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrUnsupportedMetric))

	_, err = Aggregate(reg, model.UnitDistrict, 99, model.MetricPopulation)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrDataIntegrity))
}

func TestReport(t *testing.T) {
	reg := fixtureRegistry(t)

	recs, err := Report(reg)
	require.NoError(t, err)
	// 1 district + 3 municipalities, 4 metrics each
	require.Len(t, recs, 16)

	assert.Equal(t, model.UnitDistrict, recs[0].UnitKind)
	assert.Equal(t, model.MetricPopulation, recs[0].Metric)
	assert.Equal(t, model.UnitMunicipality, recs[4].UnitKind)
	assert.Equal(t, int64(10), recs[4].UnitID)

	again, err := Report(reg)
	require.NoError(t, err)
	assert.Equal(t, recs, again)
}
