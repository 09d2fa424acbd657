package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"seminar-sync/core/reconcile"
	"seminar-sync/feature/seminar"

	"github.com/spf13/cobra"
)

var (
	syncDryRun bool
	syncFile   string
)

// syncCmd runs one reconciliation and prints the report.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scrape the calendar and reconcile the seminars table",
	Long: `Fetches the calendar page, extracts every seminar slot and reconciles
the seminars table with it. The JSON report is written to stdout:

  {"success":true,"added":[...],"updated":[...],"removed":[...],"error":null}

The command exits non-zero when the run fails.

Examples:
  # Reconcile against the live page
  seminar-sync sync

  # Preview the changes without writing
  seminar-sync sync --dry-run

  # Reconcile against a saved copy of the page
  seminar-sync sync --file calendar.html`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the planned changes without writing")
	syncCmd.Flags().StringVar(&syncFile, "file", "", "Read the calendar page from a file instead of the configured source")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{sourceFile: syncFile})
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if syncDryRun {
		plan, err := a.service.Plan(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute plan: %w", err)
		}
		return writeJSON(out, plan)
	}

	res := a.service.Sync(ctx, seminar.TriggerCLI)
	if err := writeJSON(out, res); err != nil {
		return err
	}
	return resultError(res)
}

// resultError turns a failed run into the command error.
func resultError(res *reconcile.Result) error {
	if res.Success {
		return nil
	}
	return fmt.Errorf("run %s failed: %s", res.RunID, res.ErrorMessage())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
