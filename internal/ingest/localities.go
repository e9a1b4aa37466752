// Package ingest loads region source data: locality and administrative unit
// CSV exports, boundary shapefiles, and remote dataset archives.
package ingest

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	geom "github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/urbanlab/settlement-cli/internal/model"
)

// Options configures the CSV loaders.
type Options struct {
	// Windows1251 decodes input from the legacy Windows-1251 charset used by
	// older regional statistics exports.
	Windows1251 bool
}

// localityRow is the CSV wire form of a locality. Service availability comes
// as 0/1 flags.
type localityRow struct {
	ID             int64   `csv:"id"`
	Name           string  `csv:"name"`
	X              float64 `csv:"x"`
	Y              float64 `csv:"y"`
	Population     int     `csv:"population"`
	BirthRate      float64 `csv:"birth_rate"`
	MortalityRate  float64 `csv:"mortality_rate"`
	DistrictID     int64   `csv:"district_id"`
	MunicipalityID int64   `csv:"municipality_id"`
	School         int     `csv:"school"`
	Healthcare     int     `csv:"healthcare"`
	Retail         int     `csv:"retail"`
	Culture        int     `csv:"culture"`
	PostOffice     int     `csv:"post_office"`
	Transport      int     `csv:"transport"`
}

type districtRow struct {
	ID   int64  `csv:"id"`
	Name string `csv:"name"`
}

type municipalityRow struct {
	ID         int64  `csv:"id"`
	Name       string `csv:"name"`
	DistrictID int64  `csv:"district_id"`
}

// ReadLocalities parses localities from CSV.
func ReadLocalities(r io.Reader, opts Options) ([]model.Locality, error) {
	rows, err := decodeAll[localityRow](r, opts)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: localities")
	}

	locs := make([]model.Locality, 0, len(rows))
	for _, row := range rows {
		locs = append(locs, model.Locality{
			ID:             row.ID,
			Name:           row.Name,
			Geometry:       geom.NewPointFlat(geom.XY, []float64{row.X, row.Y}),
			Population:     row.Population,
			BirthRate:      row.BirthRate,
			MortalityRate:  row.MortalityRate,
			DistrictID:     row.DistrictID,
			MunicipalityID: row.MunicipalityID,
			Services: model.Services{
				School:     row.School != 0,
				Healthcare: row.Healthcare != 0,
				Retail:     row.Retail != 0,
				Culture:    row.Culture != 0,
				PostOffice: row.PostOffice != 0,
				Transport:  row.Transport != 0,
			},
		})
	}
	return locs, nil
}

// ReadDistricts parses districts from CSV.
func ReadDistricts(r io.Reader, opts Options) ([]model.District, error) {
	rows, err := decodeAll[districtRow](r, opts)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: districts")
	}
	out := make([]model.District, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.District{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

// ReadMunicipalities parses municipalities from CSV.
func ReadMunicipalities(r io.Reader, opts Options) ([]model.Municipality, error) {
	rows, err := decodeAll[municipalityRow](r, opts)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: municipalities")
	}
	out := make([]model.Municipality, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Municipality{ID: row.ID, Name: row.Name, DistrictID: row.DistrictID})
	}
	return out, nil
}

// LoadLocalitiesFile reads a locality CSV from disk.
func LoadLocalitiesFile(path string, opts Options) ([]model.Locality, error) {
	locs, err := loadFile(path, opts, ReadLocalities)
	if err != nil {
		return nil, err
	}
	zap.L().Info("ingest: loaded localities",
		zap.String("path", path),
		zap.Int("count", len(locs)),
	)
	return locs, nil
}

// LoadDistrictsFile reads a district CSV from disk.
func LoadDistrictsFile(path string, opts Options) ([]model.District, error) {
	return loadFile(path, opts, ReadDistricts)
}

// LoadMunicipalitiesFile reads a municipality CSV from disk.
func LoadMunicipalitiesFile(path string, opts Options) ([]model.Municipality, error) {
	return loadFile(path, opts, ReadMunicipalities)
}

func loadFile[T any](path string, opts Options, read func(io.Reader, Options) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer func() { _ = f.Close() }()
	return read(f, opts)
}

func decodeAll[T any](r io.Reader, opts Options) ([]T, error) {
	if opts.Windows1251 {
		r = transform.NewReader(r, charmap.Windows1251.NewDecoder())
	}

	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "read CSV header")
	}

	var out []T
	for {
		var row T
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "decode CSV row")
		}
		out = append(out, row)
	}
	return out, nil
}
