// Package indicator aggregates locality-level demographics up to
// administrative units.
package indicator

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// Aggregate computes one metric for one administrative unit from the
// localities it contains. A known unit with no localities yields a NoData
// record rather than an error.
func Aggregate(reg *registry.Registry, kind model.UnitKind, unitID int64, metric model.Metric) (model.IndicatorRecord, error) {
	rec := model.IndicatorRecord{
		UnitKind: kind,
		UnitID:   unitID,
		Metric:   metric,
	}
	if !metric.Valid() {
		return rec, eris.Wrapf(model.ErrUnsupportedMetric, "indicator: unknown metric %q", metric)
	}

	name, ok := unitName(reg, kind, unitID)
	if !ok {
		return rec, eris.Wrapf(model.ErrDataIntegrity, "indicator: unknown %s %d", kind, unitID)
	}
	rec.UnitName = name

	locs := reg.LocalitiesIn(kind, unitID)
	rec.Localities = len(locs)
	if len(locs) == 0 {
		rec.NoData = true
		return rec, nil
	}

	switch metric {
	case model.MetricPopulation:
		var total float64
		for _, loc := range locs {
			total += float64(loc.Population)
		}
		rec.Value = total
	case model.MetricBirthRate, model.MetricMortalityRate:
		value, ok := weightedRate(locs, metric)
		if !ok {
			rec.NoData = true
			return rec, nil
		}
		rec.Value = value
	case model.MetricUrbanization:
		rec.Value = urbanShare(locs)
	}
	return rec, nil
}

func unitName(reg *registry.Registry, kind model.UnitKind, unitID int64) (string, bool) {
	switch kind {
	case model.UnitDistrict:
		if d, ok := reg.District(unitID); ok {
			return d.Name, true
		}
	case model.UnitMunicipality:
		if m, ok := reg.Municipality(unitID); ok {
			return m.Name, true
		}
	}
	return "", false
}

// weightedRate averages a per-capita rate weighted by population. A unit
// whose localities are all empty has no defined rate.
func weightedRate(locs []*model.Locality, metric model.Metric) (float64, bool) {
	var weighted, pop float64
	for _, loc := range locs {
		r := loc.BirthRate
		if metric == model.MetricMortalityRate {
			r = loc.MortalityRate
		}
		weighted += r * float64(loc.Population)
		pop += float64(loc.Population)
	}
	if pop == 0 {
		return 0, false
	}
	return weighted / pop, true
}

// urbanThreshold is the population above which a locality counts as urban.
const urbanThreshold = 12000

// urbanShare returns the fraction of the unit population living in urban
// localities.
func urbanShare(locs []*model.Locality) float64 {
	var urban, total float64
	for _, loc := range locs {
		total += float64(loc.Population)
		if loc.Population >= urbanThreshold {
			urban += float64(loc.Population)
		}
	}
	if total == 0 {
		return 0
	}
	return urban / total
}

// unitRef identifies one administrative unit for report ordering.
type unitRef struct {
	kind model.UnitKind
	id   int64
}

// Report computes every known metric for every district and municipality.
// Records come out in deterministic order: districts before municipalities,
// each sorted by unit ID, metrics in declaration order.
func Report(reg *registry.Registry) ([]model.IndicatorRecord, error) {
	units := make([]unitRef, 0, len(reg.Districts())+len(reg.Municipalities()))
	for _, d := range reg.Districts() {
		units = append(units, unitRef{kind: model.UnitDistrict, id: d.ID})
	}
	for _, m := range reg.Municipalities() {
		units = append(units, unitRef{kind: model.UnitMunicipality, id: m.ID})
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].kind != units[j].kind {
			return units[i].kind == model.UnitDistrict
		}
		return units[i].id < units[j].id
	})

	out := make([]model.IndicatorRecord, 0, len(units)*len(model.KnownMetrics))
	for _, u := range units {
		for _, metric := range model.KnownMetrics {
			rec, err := Aggregate(reg, u.kind, u.id, metric)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		}
	}

	zap.L().Debug("indicator: report complete", zap.Int("records", len(out)))
	return out, nil
}
