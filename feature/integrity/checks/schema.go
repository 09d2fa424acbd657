package checks

import (
	"context"
	"fmt"
	"sort"

	"seminar-sync/core/database"

	"gorm.io/gorm"
)

// TableReport is the result of checking one table against the columns the
// service reads and writes.
type TableReport struct {
	Table          string   `json:"table"`
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "missing", "error"
	Error          string   `json:"error,omitempty"`
}

// OK reports whether the table is usable.
func (r TableReport) OK() bool {
	return r.Status == StatusOK
}

// Check statuses.
const (
	StatusOK       = "ok"
	StatusMissing  = "missing"
	StatusError    = "error"
	StatusDisabled = "disabled"
)

// CheckDatabase pings the connection behind db.
func CheckDatabase(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CheckTables inspects every table in want. Reports are ordered by table name.
// A table that does not exist reports all of its columns as missing.
func CheckTables(db *gorm.DB, want map[string][]string) []TableReport {
	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	reports := make([]TableReport, 0, len(names))
	for _, name := range names {
		report := TableReport{Table: name, MissingColumns: []string{}, Status: StatusOK}
		missing, err := database.MissingColumns(db, name, want[name])
		switch {
		case err != nil:
			report.Status = StatusError
			report.Error = err.Error()
		case len(missing) > 0:
			report.Status = StatusMissing
			report.MissingColumns = missing
		}
		reports = append(reports, report)
	}
	return reports
}
