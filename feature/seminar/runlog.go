package seminar

import (
	"context"
	"fmt"

	"seminar-sync/core/reconcile"

	"gorm.io/gorm"
)

// RunLogStore appends one row per run to the run log table.
type RunLogStore struct {
	db    *gorm.DB
	table string
}

// NewRunLogStore creates a run log over table.
func NewRunLogStore(db *gorm.DB, table string) *RunLogStore {
	if table == "" {
		table = RunLog{}.TableName()
	}
	return &RunLogStore{db: db, table: table}
}

// Migrate creates or updates the run log table.
func (s *RunLogStore) Migrate() error {
	if err := s.db.Table(s.table).AutoMigrate(&RunLog{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", s.table, err)
	}
	return nil
}

// Record stores the outcome of res.
func (s *RunLogStore) Record(ctx context.Context, res *reconcile.Result, trigger string) error {
	row := newRunLog(res, trigger)
	if err := s.db.WithContext(ctx).Table(s.table).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", res.RunID, err)
	}
	return nil
}

// Recent returns the newest runs first.
func (s *RunLogStore) Recent(ctx context.Context, limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []RunLog
	err := s.db.WithContext(ctx).Table(s.table).
		Order("executed_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
