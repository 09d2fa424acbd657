package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runsLimit int

// runsCmd prints the most recent run log entries.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent reconciliation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := newApp(ctx, appOptions{skipExtractor: true, skipSchemaCheck: true})
		if err != nil {
			return err
		}
		defer a.close()

		runs, err := a.service.Runs(ctx, runsLimit)
		if err != nil {
			return fmt.Errorf("failed to read run log: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EXECUTED\tTRIGGER\tSTATE\tSUCCESS\tADDED\tUPDATED\tREMOVED\tFAILED\tRUN")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%d\t%d\t%d\t%s\n",
				r.ExecutedAt.Format("2006-01-02 15:04:05"), r.Trigger, r.State, r.Success,
				r.AddedCount, r.UpdatedCount, r.RemovedCount, r.FailedCount, r.RunID)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Number of runs to show")
	RootCmd.AddCommand(runsCmd)
}
