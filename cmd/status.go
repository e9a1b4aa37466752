package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/urbanlab/settlement-cli/internal/store"
)

var (
	statusRegion string
	statusLimit  int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List saved framework snapshots",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("status"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		snaps, err := st.ListSnapshots(ctx, store.SnapshotFilter{
			Region: statusRegion,
			Limit:  statusLimit,
		})
		if err != nil {
			return eris.Wrap(err, "list snapshots")
		}

		if len(snaps) == 0 {
			fmt.Fprintln(os.Stderr, "No snapshots found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREGION\tLOCALITIES\tEDGES\tAGGLOMERATIONS\tCREATED")
		for _, s := range snaps {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				s.ID, s.Region, s.Localities, s.Edges, s.Agglomerations,
				s.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		return w.Flush()
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusRegion, "region", "", "filter by region (default: all)")
	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "maximum snapshots to list")
	rootCmd.AddCommand(statusCmd)
}
