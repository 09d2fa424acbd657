package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"seminar-sync/feature/extract"

	"github.com/spf13/cobra"
)

var importYear int

// importCmd loads seminar slots from a CSV file.
var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import seminar slots from a CSV file",
	Long: `Adds and updates seminar slots from a CSV file with the header
"day,time,count", where day is M/D and time is H:MM. Rows already in the
table but absent from the file are left alone.

The year comes from --year, then sync.reference_year, then the current year.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().IntVar(&importYear, "year", 0, "Reference year for the day column")
	RootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{skipExtractor: true})
	if err != nil {
		return err
	}
	defer a.close()

	year := importYear
	if year == 0 {
		year = a.cfg.Sync.ReferenceYear
	}
	loc, err := a.cfg.Sync.Location()
	if err != nil {
		return err
	}

	res := a.service.Import(ctx, extract.NewCSVExtractor(args[0], extract.ReferenceYear(year, loc)))
	if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	return resultError(res)
}
