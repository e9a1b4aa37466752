package hierarchy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanlab/settlement-cli/internal/model"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfile(t *testing.T) {
	path := writeProfile(t, `
name: compact
weights:
  population: 0.6
  services: 0.1
  centrality: 0.3
cutpoints:
  regional_center: 0.8
  district_center: 0.55
  local_center: 0.3
`)

	p, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "compact", p.Name)
	assert.InDelta(t, 0.6, p.Weights.Population, 1e-9)
	assert.InDelta(t, 0.55, p.Cutpoints.DistrictCenter, 1e-9)
}

func TestLoadProfileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "negative weight",
			content: `
weights: {population: -1, services: 0.2, centrality: 0.3}
cutpoints: {regional_center: 0.75, district_center: 0.5, local_center: 0.25}
`,
		},
		{
			name: "cutpoints out of order",
			content: `
weights: {population: 0.5, services: 0.2, centrality: 0.3}
cutpoints: {regional_center: 0.5, district_center: 0.75, local_center: 0.25}
`,
		},
		{
			name:    "not yaml",
			content: "weights: [",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfile(writeProfile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	require.NoError(t, p.Weights.Validate())
	require.NoError(t, p.Cutpoints.Validate())

	bad := Cutpoints{RegionalCenter: 1.5}
	err := bad.Validate()
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrConfiguration))
}
