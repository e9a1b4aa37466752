package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierOrdering(t *testing.T) {
	assert.True(t, TierRegionalCenter.AtLeast(TierDistrictCenter))
	assert.True(t, TierDistrictCenter.AtLeast(TierDistrictCenter))
	assert.False(t, TierRural.AtLeast(TierLocalCenter))

	tiers := Tiers()
	for i := 1; i < len(tiers); i++ {
		assert.True(t, tiers[i] > tiers[i-1], "tiers must ascend")
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Tier
		wantErr bool
	}{
		{name: "regional center", input: "regional_center", want: TierRegionalCenter},
		{name: "district center", input: "district_center", want: TierDistrictCenter},
		{name: "local center", input: "local_center", want: TierLocalCenter},
		{name: "rural", input: "rural", want: TierRural},
		{name: "unknown name", input: "megacity", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTier(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrConfiguration))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTierRoundTrip(t *testing.T) {
	for _, tier := range Tiers() {
		parsed, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}
}
