package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/store"
)

var runsDB string

var runsCmd = &cobra.Command{
	Use:   "runs [id]",
	Short: "List stored runs, or print one as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE:  listRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsDB, "db", "lvlspec.db", "SQLite database path")
	rootCmd.AddCommand(runsCmd)
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := store.Open(ctx, runsDB)
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		snap, err := db.Run(ctx, args[0])
		if err != nil {
			return err
		}

		return pipeline.JSONReporter{W: out}.Report(ctx, snap)
	}

	runs, err := db.Runs(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCOMPLETE\tSTEPS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\n", r.ID, r.Created.Format(time.DateTime), r.Complete, r.Steps)
	}

	return tw.Flush()
}
