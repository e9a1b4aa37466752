package matrix

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/urbanlab/settlement-cli/internal/model"
)

// LoadOptions configures the matrix CSV loader.
type LoadOptions struct {
	// Windows1251 decodes the input from the legacy Windows-1251 charset
	// used by older regional statistics exports.
	Windows1251 bool
}

// ReadCSV parses accessibility edges from long-format CSV (from,to,cost).
func ReadCSV(r io.Reader, opts LoadOptions) ([]model.AccessibilityEdge, error) {
	if opts.Windows1251 {
		r = transform.NewReader(r, charmap.Windows1251.NewDecoder())
	}

	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "matrix: read CSV header")
	}

	var edges []model.AccessibilityEdge
	for {
		var e model.AccessibilityEdge
		if err := dec.Decode(&e); err == io.EOF {
			break
		} else if err != nil {
			return nil, eris.Wrap(err, "matrix: decode CSV row")
		}
		edges = append(edges, e)
	}
	return edges, nil
}

// LoadCSV reads accessibility edges from a CSV file and builds a Matrix.
func LoadCSV(path string, opts LoadOptions) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "matrix: open %s", path)
	}
	defer func() { _ = f.Close() }()

	edges, err := ReadCSV(f, opts)
	if err != nil {
		return nil, err
	}

	m, err := New(edges)
	if err != nil {
		return nil, err
	}

	zap.L().Info("matrix: loaded accessibility matrix",
		zap.String("path", path),
		zap.Int("entries", m.Len()),
	)
	return m, nil
}
