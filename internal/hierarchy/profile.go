package hierarchy

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Profile is a named tier-scoring configuration loadable from YAML, so the
// weighting formula stays configurable rather than hard-coded.
type Profile struct {
	Name      string    `yaml:"name"`
	Weights   Weights   `yaml:"weights"`
	Cutpoints Cutpoints `yaml:"cutpoints"`
}

// LoadProfile reads a scoring profile from a YAML file and validates it.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "hierarchy: read profile %s", path)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "hierarchy: parse profile %s", path)
	}

	if err := p.Weights.Validate(); err != nil {
		return nil, err
	}
	if err := p.Cutpoints.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DefaultProfile returns the built-in scoring profile.
func DefaultProfile() *Profile {
	return &Profile{
		Name:      "default",
		Weights:   DefaultWeights(),
		Cutpoints: DefaultCutpoints(),
	}
}
