package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanlab/settlement-cli/internal/config"
)

func writeFixtureData(t *testing.T) {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	localities := write("localities.csv",
		"id,name,x,y,population,birth_rate,mortality_rate,district_id,municipality_id,school,healthcare,retail,culture,post_office,transport\n"+
			"1,Metropolis,0,0,50000,10,12,1,10,1,1,1,1,1,1\n"+
			"2,Satellite,10000,0,2000,8,14,1,10,1,0,1,0,1,1\n"+
			"3,Hamlet,200000,0,300,6,16,1,10,0,0,0,0,0,0\n")
	districts := write("districts.csv", "id,name\n1,Central\n")
	municipalities := write("municipalities.csv", "id,name,district_id\n10,Core,1\n")
	matrix := write("matrix.csv", "from,to,cost\n1,2,10\n2,1,10\n1,3,300\n")

	cfg = &config.Config{
		Region: "testreg",
		Data: config.DataConfig{
			LocalitiesPath:     localities,
			DistrictsPath:      districts,
			MunicipalitiesPath: municipalities,
			MatrixPath:         matrix,
		},
		Framework: config.FrameworkConfig{CostThreshold: 45, Gravity: 0.25},
		Agglomeration: config.AgglomerationConfig{
			Threshold:         20,
			CoreTier:          "district_center",
			MinCorePopulation: 15000,
			RadiusPerCostUnit: 500,
			Parallelism:       2,
		},
	}
}

func TestBuildModelFromFixtures(t *testing.T) {
	writeFixtureData(t)

	m, err := buildModel()
	require.NoError(t, err)

	assert.Equal(t, 3, m.Registry.Len())
	// The 1-2 pair is within the threshold; 1-3 at cost 300 is not.
	assert.Equal(t, 1, m.Graph.NumEdges())
	assert.Len(t, m.Tiers, 3)
	assert.InDelta(t, 45.0, m.CostThreshold, 1e-9)
	assert.InDelta(t, 20.0, m.AgglomerationThreshold, 1e-9)
}

func TestBuildModelBadTier(t *testing.T) {
	writeFixtureData(t)
	cfg.Agglomeration.CoreTier = "megacity"

	_, err := buildModel()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tier")
}

func TestLoadRegistryMissingFile(t *testing.T) {
	writeFixtureData(t)
	cfg.Data.LocalitiesPath = filepath.Join(t.TempDir(), "absent.csv")

	_, err := loadRegistry()
	require.Error(t, err)
}
