package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	geom "github.com/twpayne/go-geom"
	"golang.org/x/text/encoding/charmap"

	"github.com/urbanlab/settlement-cli/internal/model"
)

func TestReadLocalities(t *testing.T) {
	csvData := `id,name,x,y,population,birth_rate,mortality_rate,district_id,municipality_id,school,healthcare,retail,culture,post_office,transport
1,Gatchina,100.5,200.25,92000,9.1,13.2,1,10,1,1,1,1,1,1
2,Vyritsa,110,210,12000,8.4,14.0,1,10,1,0,1,0,1,0
`
	locs, err := ReadLocalities(strings.NewReader(csvData), Options{})
	require.NoError(t, err)
	require.Len(t, locs, 2)

	assert.Equal(t, int64(1), locs[0].ID)
	assert.Equal(t, "Gatchina", locs[0].Name)
	pos := locs[0].Coord()
	assert.Equal(t, 100.5, pos[0])
	assert.Equal(t, 200.25, pos[1])
	assert.Equal(t, 92000, locs[0].Population)
	assert.Equal(t, 6, locs[0].Services.Count())
	assert.Equal(t, 3, locs[1].Services.Count())
}

func TestReadLocalitiesWindows1251(t *testing.T) {
	raw := "id,name,x,y,population,birth_rate,mortality_rate,district_id,municipality_id,school,healthcare,retail,culture,post_office,transport\n" +
		"1,Гатчина,0,0,92000,9.1,13.2,1,10,1,1,1,1,1,1\n"
	encoded, err := charmap.Windows1251.NewEncoder().String(raw)
	require.NoError(t, err)

	locs, err := ReadLocalities(strings.NewReader(encoded), Options{Windows1251: true})
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Гатчина", locs[0].Name)
}

func TestReadLocalitiesMalformed(t *testing.T) {
	_, err := ReadLocalities(strings.NewReader("id,name\n1,X,extra\n"), Options{})
	require.Error(t, err)
}

func TestReadAdminUnits(t *testing.T) {
	districts, err := ReadDistricts(strings.NewReader("id,name\n1,Gatchinsky\n"), Options{})
	require.NoError(t, err)
	require.Len(t, districts, 1)
	assert.Equal(t, "Gatchinsky", districts[0].Name)

	munis, err := ReadMunicipalities(strings.NewReader("id,name,district_id\n10,Gatchina MO,1\n"), Options{})
	require.NoError(t, err)
	require.Len(t, munis, 1)
	assert.Equal(t, int64(1), munis[0].DistrictID)
}

func TestLoadLocalitiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "localities.csv")
	data := "id,name,x,y,population,birth_rate,mortality_rate,district_id,municipality_id,school,healthcare,retail,culture,post_office,transport\n" +
		"1,Test,0,0,100,1,1,1,10,0,0,0,0,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	locs, err := LoadLocalitiesFile(path, Options{})
	require.NoError(t, err)
	assert.Len(t, locs, 1)

	_, err = LoadLocalitiesFile(filepath.Join(t.TempDir(), "missing.csv"), Options{})
	require.Error(t, err)
}

func TestPolygonToMultiPolygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0},
		},
	}

	mp := polygonToMultiPolygon(poly)
	require.NotNil(t, mp)
	assert.Equal(t, 1, mp.NumPolygons())
	assert.Len(t, mp.Polygon(0).LinearRing(0).FlatCoords(), 10)

	assert.Nil(t, polygonToMultiPolygon(nil))
	assert.Nil(t, polygonToMultiPolygon(&shp.Polygon{}))
}

func TestAttachBoundaries(t *testing.T) {
	districts := []model.District{
		{ID: 1, Name: "Gatchinsky"},
		{ID: 2, Name: "Tosnensky"},
	}
	mp := geom.NewMultiPolygon(geom.XY)
	boundaries := []Boundary{{Name: "  gatchinsky ", Geometry: mp}}

	matched := AttachBoundaries(districts, boundaries,
		func(d *model.District) string { return d.Name },
		func(d *model.District, g *geom.MultiPolygon) { d.Boundary = g },
	)
	assert.Equal(t, 1, matched)
	assert.NotNil(t, districts[0].Boundary)
	assert.Nil(t, districts[1].Boundary)
}

func TestDownload(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("localities.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("id,name\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	dest := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/dataset.zip", dest, ".csv")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "localities.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,name\n", string(data))

	// second call reuses the cached archive
	again, err := Download(context.Background(), srv.URL+"/dataset.zip", dest, ".csv")
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/missing.zip", t.TempDir(), ".csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
