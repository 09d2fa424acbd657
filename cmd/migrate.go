package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates the seminars and run log tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the seminars and run log tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(context.Background(), appOptions{skipExtractor: true, skipSchemaCheck: true})
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.service.Migrate(); err != nil {
			return err
		}
		a.logger.Info("Migration complete",
			zap.String("table", a.cfg.Sync.Table),
			zap.String("log_table", a.cfg.Sync.LogTable),
		)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
