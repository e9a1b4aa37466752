package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/ingest"
)

var (
	importLocalitiesURL string
	importBoundariesURL string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch and validate the source datasets",
	Long:  "Downloads remote dataset archives when URLs are given, then parses the configured locality, administrative-unit, and accessibility files and reports what was loaded.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("import"); err != nil {
			return err
		}

		if importLocalitiesURL != "" {
			path, err := ingest.Download(ctx, importLocalitiesURL, cfg.Data.CacheDir, ".csv")
			if err != nil {
				return eris.Wrap(err, "download localities")
			}
			cfg.Data.LocalitiesPath = path
		}
		if importBoundariesURL != "" {
			path, err := ingest.Download(ctx, importBoundariesURL, cfg.Data.CacheDir, ".shp")
			if err != nil {
				return eris.Wrap(err, "download boundaries")
			}
			cfg.Data.BoundariesPath = path
		}

		reg, err := loadRegistry()
		if err != nil {
			return eris.Wrap(err, "load registry")
		}

		m, err := loadMatrix()
		if err != nil {
			return eris.Wrap(err, "load accessibility matrix")
		}

		zap.L().Info("datasets validated",
			zap.Int("localities", reg.Len()),
			zap.Int("districts", len(reg.Districts())),
			zap.Int("municipalities", len(reg.Municipalities())),
			zap.Int("matrix_entries", m.Len()),
		)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Localities\t%d\t%s\n", reg.Len(), filepath.Base(cfg.Data.LocalitiesPath))
		fmt.Fprintf(w, "Districts\t%d\t\n", len(reg.Districts()))
		fmt.Fprintf(w, "Municipalities\t%d\t\n", len(reg.Municipalities()))
		fmt.Fprintf(w, "Matrix entries\t%d\t%s\n", m.Len(), filepath.Base(cfg.Data.MatrixPath))
		return w.Flush()
	},
}

func init() {
	importCmd.Flags().StringVar(&importLocalitiesURL, "localities-url", "", "download localities archive from URL into the cache dir")
	importCmd.Flags().StringVar(&importBoundariesURL, "boundaries-url", "", "download boundary shapefile archive from URL into the cache dir")
	rootCmd.AddCommand(importCmd)
}
