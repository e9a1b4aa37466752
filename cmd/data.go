package main

import (
	geom "github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/ingest"
	"github.com/urbanlab/settlement-cli/internal/matrix"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

// loadRegistry reads the configured locality and administrative-unit datasets
// and assembles a validated registry. Districts and municipalities are
// optional; boundary attachment only happens when a shapefile is configured.
func loadRegistry() (*registry.Registry, error) {
	opts := ingest.Options{Windows1251: cfg.Data.Windows1251}

	locs, err := ingest.LoadLocalitiesFile(cfg.Data.LocalitiesPath, opts)
	if err != nil {
		return nil, err
	}

	var districts []model.District
	if cfg.Data.DistrictsPath != "" {
		districts, err = ingest.LoadDistrictsFile(cfg.Data.DistrictsPath, opts)
		if err != nil {
			return nil, err
		}
	}

	var municipalities []model.Municipality
	if cfg.Data.MunicipalitiesPath != "" {
		municipalities, err = ingest.LoadMunicipalitiesFile(cfg.Data.MunicipalitiesPath, opts)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Data.BoundariesPath != "" {
		boundaries, err := ingest.ReadBoundaries(cfg.Data.BoundariesPath, cfg.Data.BoundaryNameField)
		if err != nil {
			return nil, err
		}
		matched := ingest.AttachBoundaries(districts, boundaries,
			func(d *model.District) string { return d.Name },
			func(d *model.District, g *geom.MultiPolygon) { d.Boundary = g },
		)
		matched += ingest.AttachBoundaries(municipalities, boundaries,
			func(m *model.Municipality) string { return m.Name },
			func(m *model.Municipality, g *geom.MultiPolygon) { m.Boundary = g },
		)
		zap.L().Info("attached unit boundaries",
			zap.Int("matched", matched),
			zap.Int("boundaries", len(boundaries)),
		)
	}

	return registry.New(locs, districts, municipalities)
}

func loadMatrix() (*matrix.Matrix, error) {
	return matrix.LoadCSV(cfg.Data.MatrixPath, matrix.LoadOptions{Windows1251: cfg.Data.Windows1251})
}
