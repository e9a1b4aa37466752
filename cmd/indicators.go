package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbanlab/settlement-cli/internal/export"
	"github.com/urbanlab/settlement-cli/internal/indicator"
	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/registry"
)

var (
	indicatorsSnapshotID string
	indicatorsOut        string
	indicatorsFormat     string
	indicatorsUnit       string
	indicatorsMetric     string
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Aggregate demographic indicators per administrative unit",
	Long:  "Computes population, weighted vital rates, and urbanization for every district and municipality of a saved snapshot, written as CSV or XLSX.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("indicators"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snap, m, err := loadModel(ctx, st, indicatorsSnapshotID)
		if err != nil {
			return err
		}

		var records []model.IndicatorRecord
		if indicatorsUnit != "" {
			records, err = aggregateUnit(m.Registry)
		} else {
			records, err = indicator.Report(m.Registry)
		}
		if err != nil {
			return err
		}

		zap.L().Info("indicators aggregated",
			zap.String("snapshot", snap.ID),
			zap.Int("records", len(records)),
		)

		switch indicatorsFormat {
		case "csv":
			if indicatorsOut == "" {
				return export.WriteIndicatorsCSV(os.Stdout, records)
			}
			return export.WriteIndicatorsCSVFile(indicatorsOut, records)
		case "xlsx":
			if indicatorsOut == "" {
				return eris.New("--out is required for xlsx output")
			}
			return export.WriteIndicatorsXLSX(indicatorsOut, records)
		default:
			return eris.Errorf("unsupported format: %s", indicatorsFormat)
		}
	},
}

// aggregateUnit computes indicators for one unit given as kind:id, optionally
// restricted to a single metric.
func aggregateUnit(reg *registry.Registry) ([]model.IndicatorRecord, error) {
	parts := strings.SplitN(indicatorsUnit, ":", 2)
	if len(parts) != 2 {
		return nil, eris.Errorf("invalid unit %q, expected kind:id (e.g. district:3)", indicatorsUnit)
	}
	kind := model.UnitKind(parts[0])
	if kind != model.UnitDistrict && kind != model.UnitMunicipality {
		return nil, eris.Errorf("unknown unit kind %q", parts[0])
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid unit ID %q", parts[1])
	}

	metrics := model.KnownMetrics
	if indicatorsMetric != "" {
		metrics = []model.Metric{model.Metric(indicatorsMetric)}
	}

	var records []model.IndicatorRecord
	for _, metric := range metrics {
		rec, err := indicator.Aggregate(reg, kind, id, metric)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func init() {
	indicatorsCmd.Flags().StringVar(&indicatorsSnapshotID, "snapshot", "", "snapshot ID (default: latest for the configured region)")
	indicatorsCmd.Flags().StringVar(&indicatorsOut, "out", "", "output file path (default: stdout for csv)")
	indicatorsCmd.Flags().StringVar(&indicatorsFormat, "format", "csv", "output format: csv or xlsx")
	indicatorsCmd.Flags().StringVar(&indicatorsUnit, "unit", "", "restrict to one unit as kind:id (e.g. district:3)")
	indicatorsCmd.Flags().StringVar(&indicatorsMetric, "metric", "", "restrict to one metric (with --unit)")
	rootCmd.AddCommand(indicatorsCmd)
}
