package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/agglomeration"
	"github.com/urbanlab/settlement-cli/internal/framework"
	"github.com/urbanlab/settlement-cli/internal/hierarchy"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/store"
)

var (
	buildNoSave   bool
	buildGraphOut string
	buildAggsOut  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the settlement framework and save a snapshot",
	Long:  "Constructs the framework graph from the configured datasets, classifies localities into tiers, detects agglomerations, and persists the resulting model as a snapshot.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("build"); err != nil {
			return err
		}

		m, err := buildModel()
		if err != nil {
			return err
		}

		zap.L().Info("framework built",
			zap.String("region", cfg.Region),
			zap.Int("localities", m.Registry.Len()),
			zap.Int("edges", m.Graph.NumEdges()),
			zap.Int("agglomerations", len(m.Agglomerations)),
		)

		if buildGraphOut != "" {
			fc, err := framework.GraphFeatureCollection(m)
			if err != nil {
				return err
			}
			if err := writeGeoJSON(buildGraphOut, fc); err != nil {
				return err
			}
		}
		if buildAggsOut != "" {
			if err := writeGeoJSON(buildAggsOut, framework.AgglomerationFeatureCollection(m)); err != nil {
				return err
			}
		}

		if buildNoSave {
			fmt.Printf("Built framework for %s: %d localities, %d edges, %d agglomerations (not saved)\n",
				cfg.Region, m.Registry.Len(), m.Graph.NumEdges(), len(m.Agglomerations))
			return nil
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		payload, err := framework.EncodeModel(m)
		if err != nil {
			return err
		}

		snap, err := st.CreateSnapshot(ctx, store.Snapshot{
			Region:                 cfg.Region,
			CostThreshold:          m.CostThreshold,
			AgglomerationThreshold: m.AgglomerationThreshold,
			Localities:             m.Registry.Len(),
			Edges:                  m.Graph.NumEdges(),
			Agglomerations:         len(m.Agglomerations),
			Payload:                payload,
		})
		if err != nil {
			return eris.Wrap(err, "save snapshot")
		}

		fmt.Printf("Snapshot %s saved: %d localities, %d edges, %d agglomerations\n",
			snap.ID, snap.Localities, snap.Edges, snap.Agglomerations)
		return nil
	},
}

// buildModel runs the full construction pipeline off the configured datasets.
func buildModel() (*framework.Model, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, eris.Wrap(err, "load registry")
	}

	mx, err := loadMatrix()
	if err != nil {
		return nil, eris.Wrap(err, "load accessibility matrix")
	}

	g, err := framework.Build(reg, mx, framework.Options{
		CostThreshold: cfg.Framework.CostThreshold,
		Significance:  framework.DefaultSignificance(cfg.Framework.Gravity),
	})
	if err != nil {
		return nil, err
	}

	profile := hierarchy.DefaultProfile()
	if cfg.Hierarchy.ProfilePath != "" {
		profile, err = hierarchy.LoadProfile(cfg.Hierarchy.ProfilePath)
		if err != nil {
			return nil, err
		}
	}

	res, err := hierarchy.Classify(reg, g, profile.Weights, profile.Cutpoints)
	if err != nil {
		return nil, err
	}

	coreTier, err := model.ParseTier(cfg.Agglomeration.CoreTier)
	if err != nil {
		return nil, err
	}
	opts := agglomeration.DefaultOptions(cfg.Agglomeration.Threshold)
	opts.CoreTier = coreTier
	opts.MinCorePopulation = cfg.Agglomeration.MinCorePopulation
	opts.RadiusPerCostUnit = cfg.Agglomeration.RadiusPerCostUnit
	opts.Parallelism = cfg.Agglomeration.Parallelism

	aggs, err := agglomeration.Detect(reg, g, res.Tiers, opts)
	if err != nil {
		return nil, err
	}

	return &framework.Model{
		Registry:               reg,
		Graph:                  g,
		Tiers:                  res.Tiers,
		Agglomerations:         aggs,
		CostThreshold:          cfg.Framework.CostThreshold,
		AgglomerationThreshold: cfg.Agglomeration.Threshold,
		RadiusPerCostUnit:      cfg.Agglomeration.RadiusPerCostUnit,
	}, nil
}

func writeGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := framework.MarshalGeoJSON(fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	zap.L().Info("wrote GeoJSON", zap.String("path", path))
	return nil
}

func init() {
	buildCmd.Flags().BoolVar(&buildNoSave, "no-save", false, "build without persisting a snapshot")
	buildCmd.Flags().StringVar(&buildGraphOut, "graph-geojson", "", "write the framework graph as GeoJSON to this path")
	buildCmd.Flags().StringVar(&buildAggsOut, "agglomerations-geojson", "", "write agglomeration boundaries as GeoJSON to this path")
	rootCmd.AddCommand(buildCmd)
}
