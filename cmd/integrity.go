package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the database, the tables and the archive bucket",
	Long: `Pings the database, verifies that the seminars and run log tables carry
every column seminar-sync uses, and checks that the archive bucket exists
when archiving is enabled. Prints a JSON report and exits non-zero when a
check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		a, err := newApp(ctx, appOptions{skipExtractor: true, skipSchemaCheck: true})
		if err != nil {
			return err
		}
		defer a.close()

		report := a.integrity().Check(ctx)
		if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.Healthy {
			return errors.New("integrity checks failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
}
