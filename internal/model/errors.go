package model

import "github.com/rotisserie/eris"

// Sentinel errors forming the core error taxonomy. Callers classify failures
// with eris.Is against these; packages wrap them with contextual detail.
var (
	// ErrDataIntegrity indicates referential inconsistency between inputs,
	// e.g. an accessibility entry naming a locality that does not exist.
	ErrDataIntegrity = eris.New("data integrity violation")

	// ErrConfiguration indicates an invalid threshold or weight.
	ErrConfiguration = eris.New("invalid configuration")

	// ErrUnsupportedMetric indicates an unknown indicator metric.
	ErrUnsupportedMetric = eris.New("unsupported metric")

	// ErrInvalidGeometry indicates a nil, empty, or degenerate territory geometry.
	ErrInvalidGeometry = eris.New("invalid geometry")
)
