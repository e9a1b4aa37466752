package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/store"
	"github.com/urbanlab/settlement-cli/internal/territory"
)

var (
	evaluateSnapshotID string
	evaluateGeomPath   string
	evaluatePoint      string
	evaluateNoSave     bool
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a territory's location in the settlement framework",
	Long:  "Evaluates a territory geometry (a GeoJSON file or a point) against a saved framework snapshot: nearest localities per tier, agglomeration membership, and the 0-5 location score.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("evaluate"); err != nil {
			return err
		}

		g, err := parseTerritoryGeometry()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, m, err := loadModel(ctx, st, evaluateSnapshotID)
		if err != nil {
			return err
		}

		score, err := territory.Evaluate(m, g)
		if err != nil {
			return err
		}

		result, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal evaluation result")
		}

		if !evaluateNoSave {
			eval, err := st.CreateEvaluation(ctx, store.Evaluation{
				SnapshotID:    snap.ID,
				LocationScore: score.LocationScore,
				Result:        result,
			})
			if err != nil {
				return eris.Wrap(err, "save evaluation")
			}
			zap.L().Info("evaluation saved",
				zap.String("id", eval.ID),
				zap.String("snapshot", snap.ID),
				zap.Int("location_score", score.LocationScore),
			)
		}

		fmt.Println(string(result))
		return nil
	},
}

func parseTerritoryGeometry() (geom.T, error) {
	switch {
	case evaluateGeomPath != "":
		data, err := os.ReadFile(evaluateGeomPath)
		if err != nil {
			return nil, eris.Wrapf(err, "read geometry %s", evaluateGeomPath)
		}
		var g geom.T
		if err := geojson.Unmarshal(data, &g); err != nil {
			return nil, eris.Wrap(err, "parse GeoJSON geometry")
		}
		return g, nil
	case evaluatePoint != "":
		parts := strings.Split(evaluatePoint, ",")
		if len(parts) != 2 {
			return nil, eris.Errorf("invalid point %q, expected x,y", evaluatePoint)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid point x %q", parts[0])
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid point y %q", parts[1])
		}
		return geom.NewPointFlat(geom.XY, []float64{x, y}), nil
	default:
		return nil, eris.New("either --geometry or --point is required")
	}
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateSnapshotID, "snapshot", "", "snapshot ID (default: latest for the configured region)")
	evaluateCmd.Flags().StringVar(&evaluateGeomPath, "geometry", "", "path to a GeoJSON geometry file")
	evaluateCmd.Flags().StringVar(&evaluatePoint, "point", "", "territory point as x,y in projected meters")
	evaluateCmd.Flags().BoolVar(&evaluateNoSave, "no-save", false, "evaluate without persisting the result")
	rootCmd.AddCommand(evaluateCmd)
}
