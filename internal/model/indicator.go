package model

// Metric names an indicator computed over an administrative unit.
type Metric string

const (
	MetricPopulation    Metric = "population"
	MetricBirthRate     Metric = "birth_rate"
	MetricMortalityRate Metric = "mortality_rate"
	MetricUrbanization  Metric = "urbanization"
)

// KnownMetrics lists every supported metric.
var KnownMetrics = []Metric{MetricPopulation, MetricBirthRate, MetricMortalityRate, MetricUrbanization}

// Valid reports whether the metric is one of KnownMetrics.
func (m Metric) Valid() bool {
	for _, k := range KnownMetrics {
		if m == k {
			return true
		}
	}
	return false
}

// IndicatorRecord is a single aggregated metric value for an administrative
// unit. Recomputed on demand from locality attributes; never authoritative.
type IndicatorRecord struct {
	UnitKind   UnitKind `json:"unit_kind"`
	UnitID     int64    `json:"unit_id"`
	UnitName   string   `json:"unit_name"`
	Metric     Metric   `json:"metric"`
	Value      float64  `json:"value"`
	Localities int      `json:"localities"`
	// NoData marks a unit with zero member localities. The zero Value then
	// means "no data", not "measured zero".
	NoData bool   `json:"no_data"`
	Period string `json:"period"`
}
