// Package export writes indicator reports and framework artifacts to
// exchange formats.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/model"
)

var indicatorHeader = []string{"unit_kind", "unit_id", "unit_name", "metric", "value", "localities", "no_data"}

// WriteIndicatorsXLSX writes an indicator report workbook with one sheet.
func WriteIndicatorsXLSX(path string, records []model.IndicatorRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Indicators")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range indicatorHeader {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(string(rec.UnitKind))
		row.AddCell().SetString(fmt.Sprintf("%d", rec.UnitID))
		row.AddCell().SetString(rec.UnitName)
		row.AddCell().SetString(string(rec.Metric))
		if rec.NoData {
			row.AddCell().SetString("")
		} else {
			row.AddCell().SetFloat(rec.Value)
		}
		row.AddCell().SetInt(rec.Localities)
		row.AddCell().SetBool(rec.NoData)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}

	zap.L().Info("export: wrote indicator workbook",
		zap.String("path", path),
		zap.Int("records", len(records)),
	)
	return nil
}
