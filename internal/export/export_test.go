package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/urbanlab/settlement-cli/internal/model"
)

func sampleRecords() []model.IndicatorRecord {
	return []model.IndicatorRecord{
		{UnitKind: model.UnitDistrict, UnitID: 1, UnitName: "Central",
			Metric: model.MetricPopulation, Value: 40500, Localities: 3},
		{UnitKind: model.UnitMunicipality, UnitID: 10, UnitName: "Urban MO",
			Metric: model.MetricBirthRate, Value: 9.5, Localities: 2},
		{UnitKind: model.UnitMunicipality, UnitID: 12, UnitName: "Empty MO",
			Metric: model.MetricPopulation, Localities: 0, NoData: true},
	}
}

func TestWriteIndicatorsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicators.xlsx")
	require.NoError(t, WriteIndicatorsXLSX(path, sampleRecords()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Indicators", sheet.Name)
	require.Len(t, sheet.Rows, 4)

	assert.Equal(t, "unit_kind", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "district", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Central", sheet.Rows[1].Cells[2].String())
	assert.Equal(t, "population", sheet.Rows[1].Cells[3].String())

	// NoData rows carry an empty value cell
	assert.Equal(t, "", sheet.Rows[3].Cells[4].String())
}

func TestWriteIndicatorsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIndicatorsCSV(&buf, sampleRecords()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "unit_kind,unit_id,unit_name,metric,value,localities,no_data", lines[0])
	assert.Contains(t, lines[1], "district,1,Central,population,40500")
	assert.Contains(t, lines[3], "true")
}

func TestWriteIndicatorsCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "indicators.csv")
	require.NoError(t, WriteIndicatorsCSVFile(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unit_kind,unit_id")

	err = WriteIndicatorsCSVFile(filepath.Join(t.TempDir(), "missing", "x.csv"), nil)
	require.Error(t, err)
}
