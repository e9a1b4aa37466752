package export

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/urbanlab/settlement-cli/internal/model"
)

// indicatorRow is the CSV wire form of an indicator record.
type indicatorRow struct {
	UnitKind   string  `csv:"unit_kind"`
	UnitID     int64   `csv:"unit_id"`
	UnitName   string  `csv:"unit_name"`
	Metric     string  `csv:"metric"`
	Value      float64 `csv:"value"`
	Localities int     `csv:"localities"`
	NoData     bool    `csv:"no_data"`
}

// WriteIndicatorsCSV writes an indicator report as CSV.
func WriteIndicatorsCSV(w io.Writer, records []model.IndicatorRecord) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)

	for _, rec := range records {
		row := indicatorRow{
			UnitKind:   string(rec.UnitKind),
			UnitID:     rec.UnitID,
			UnitName:   rec.UnitName,
			Metric:     string(rec.Metric),
			Value:      rec.Value,
			Localities: rec.Localities,
			NoData:     rec.NoData,
		}
		if err := enc.Encode(row); err != nil {
			return eris.Wrap(err, "export: encode CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

// WriteIndicatorsCSVFile writes an indicator report CSV to disk.
func WriteIndicatorsCSVFile(path string, records []model.IndicatorRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer func() { _ = f.Close() }()
	return WriteIndicatorsCSV(f, records)
}
