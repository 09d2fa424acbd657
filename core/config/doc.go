// Package config loads the application configuration.
//
// Defaults come from the `default` struct tags of each section and are
// registered with Viper by reflection, so every key can be overridden from
// the environment. A .env file and a config.yaml next to the binary are read
// when present; real environment variables take precedence over both.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and shutdown window
//   - Log: level and encoding
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: MinIO/S3 bucket for archived pages and run reports
//   - Sync: tables, cutoff, deletion and empty-snapshot policies, schedule
//   - Extract: how the calendar page is fetched
//   - Telemetry: OpenTelemetry tracing
//
// Keys map to environment variables by upper-casing and replacing dots with
// underscores, e.g. sync.deletion_policy becomes SYNC_DELETION_POLICY.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.Cutoff)
package config
