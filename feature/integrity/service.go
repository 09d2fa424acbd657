package integrity

import (
	"context"

	"seminar-sync/core/storage"
	"seminar-sync/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Report is the combined result of every check.
type Report struct {
	Healthy  bool                 `json:"healthy"`
	Database string               `json:"database"`
	Error    string               `json:"error,omitempty"`
	Tables   []checks.TableReport `json:"tables"`
	Storage  checks.BucketReport  `json:"storage"`
}

// Service handles integrity checks.
type Service struct {
	db      *gorm.DB
	columns map[string][]string
	client  storage.Client
	bucket  string
	logger  *zap.Logger
}

// NewService creates a new integrity service. columns maps each table to the
// columns it must have. A nil client skips the storage check.
func NewService(db *gorm.DB, columns map[string][]string, client storage.Client, bucket string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:      db,
		columns: columns,
		client:  client,
		bucket:  bucket,
		logger:  logger,
	}
}

// Check runs every check. Table checks are skipped when the database does
// not answer.
func (s *Service) Check(ctx context.Context) *Report {
	report := &Report{Healthy: true, Database: checks.StatusOK, Tables: []checks.TableReport{}}

	if err := checks.CheckDatabase(ctx, s.db); err != nil {
		report.Healthy = false
		report.Database = checks.StatusError
		report.Error = err.Error()
		s.logger.Warn("Database check failed", zap.Error(err))
	} else {
		report.Tables = checks.CheckTables(s.db, s.columns)
		for _, t := range report.Tables {
			if !t.OK() {
				report.Healthy = false
				s.logger.Warn("Table check failed",
					zap.String("table", t.Table),
					zap.String("status", t.Status),
					zap.Strings("missing_columns", t.MissingColumns),
				)
			}
		}
	}

	report.Storage = checks.CheckBucket(ctx, s.client, s.bucket)
	if report.Storage.Status != checks.StatusOK && report.Storage.Status != checks.StatusDisabled {
		report.Healthy = false
		s.logger.Warn("Storage check failed", zap.String("bucket", s.bucket), zap.String("error", report.Storage.Error))
	}
	return report
}
