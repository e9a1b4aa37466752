package registry

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/urbanlab/settlement-cli/internal/model"
)

func pt(x, y float64) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{x, y})
}

func testUnits() ([]model.District, []model.Municipality) {
	districts := []model.District{
		{ID: 1, Name: "Northern District"},
		{ID: 2, Name: "Southern District"},
	}
	municipalities := []model.Municipality{
		{ID: 10, Name: "North Urban MO", DistrictID: 1},
		{ID: 11, Name: "North Rural MO", DistrictID: 1},
		{ID: 20, Name: "South MO", DistrictID: 2},
	}
	return districts, municipalities
}

func testLocalities() []model.Locality {
	return []model.Locality{
		{ID: 3, Name: "Treplino", Geometry: pt(2000, 0), Population: 1000, DistrictID: 1, MunicipalityID: 11},
		{ID: 1, Name: "Severograd", Geometry: pt(0, 0), Population: 50000, DistrictID: 1, MunicipalityID: 10},
		{ID: 2, Name: "Ustye", Geometry: pt(1000, 500), Population: 2000, DistrictID: 1, MunicipalityID: 11},
		{ID: 4, Name: "Yuzhnoye", Geometry: pt(90000, -40000), Population: 8000, DistrictID: 2, MunicipalityID: 20},
	}
}

func TestNewRegistry(t *testing.T) {
	districts, municipalities := testUnits()
	r, err := New(testLocalities(), districts, municipalities)
	require.NoError(t, err)

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, []int64{1, 2, 3, 4}, r.IDs(), "iteration order is ID-sorted")

	l, ok := r.Locality(2)
	require.True(t, ok)
	assert.Equal(t, "Ustye", l.Name)

	assert.Len(t, r.LocalitiesIn(model.UnitDistrict, 1), 3)
	assert.Len(t, r.LocalitiesIn(model.UnitMunicipality, 11), 2)
	assert.Len(t, r.MunicipalitiesOf(1), 2)

	ext := r.Extent()
	assert.Equal(t, 0.0, ext.MinX)
	assert.Equal(t, 90000.0, ext.MaxX)
}

func TestNewRegistryIntegrityErrors(t *testing.T) {
	districts, municipalities := testUnits()

	tests := []struct {
		name       string
		localities []model.Locality
	}{
		{
			name: "unknown district",
			localities: []model.Locality{
				{ID: 1, Geometry: pt(0, 0), Population: 10, DistrictID: 99, MunicipalityID: 10},
			},
		},
		{
			name: "unknown municipality",
			localities: []model.Locality{
				{ID: 1, Geometry: pt(0, 0), Population: 10, DistrictID: 1, MunicipalityID: 99},
			},
		},
		{
			name: "district mismatch with municipality",
			localities: []model.Locality{
				{ID: 1, Geometry: pt(0, 0), Population: 10, DistrictID: 2, MunicipalityID: 10},
			},
		},
		{
			name: "duplicate locality",
			localities: []model.Locality{
				{ID: 1, Geometry: pt(0, 0), Population: 10, DistrictID: 1, MunicipalityID: 10},
				{ID: 1, Geometry: pt(1, 1), Population: 20, DistrictID: 1, MunicipalityID: 10},
			},
		},
		{
			name: "negative population",
			localities: []model.Locality{
				{ID: 1, Geometry: pt(0, 0), Population: -5, DistrictID: 1, MunicipalityID: 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.localities, districts, municipalities)
			require.Error(t, err)
			assert.True(t, eris.Is(err, model.ErrDataIntegrity))
		})
	}
}

func TestNewRegistryMunicipalityUnknownDistrict(t *testing.T) {
	_, err := New(nil, []model.District{{ID: 1}}, []model.Municipality{{ID: 10, DistrictID: 7}})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrDataIntegrity))
}

func TestEmptyRegistry(t *testing.T) {
	r, err := New(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
	assert.True(t, r.Extent().IsEmpty())
}
