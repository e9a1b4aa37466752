package model

import "github.com/rotisserie/eris"

// Tier is the ordinal settlement-hierarchy classification of a locality.
// Tiers are totally ordered: Rural < LocalCenter < DistrictCenter < RegionalCenter.
type Tier int

const (
	TierRural Tier = iota
	TierLocalCenter
	TierDistrictCenter
	TierRegionalCenter
)

var tierNames = map[Tier]string{
	TierRural:          "rural",
	TierLocalCenter:    "local_center",
	TierDistrictCenter: "district_center",
	TierRegionalCenter: "regional_center",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// AtLeast reports whether t ranks at or above other.
func (t Tier) AtLeast(other Tier) bool { return t >= other }

// ParseTier converts a tier name back to its Tier value.
func ParseTier(s string) (Tier, error) {
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return 0, eris.Wrapf(ErrConfiguration, "model: unknown tier %q", s)
}

// Tiers returns all tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierRural, TierLocalCenter, TierDistrictCenter, TierRegionalCenter}
}
